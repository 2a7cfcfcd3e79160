package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/macrocal/internal/aggregator"
	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/session"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the aggregation result in the specified format
func WriteOutput(w io.Writer, result *aggregator.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text grouped by day or week
func writeText(w io.Writer, result *aggregator.Result, verbose bool) error {
	if result.Total == 0 && len(result.Partial) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	keys := make([]string, 0, len(result.Groups))
	for key := range result.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		events := result.Groups[key]
		if len(events) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d events):\n", key, len(events))
		for _, evt := range events {
			writeEvent(w, evt, verbose)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events\n", result.Total)

	for _, p := range result.Partial {
		fmt.Fprintf(w, "WARNING: week %d-W%02d failed: %s\n", p.Year, p.Week, p.ErrorKind)
	}
	return nil
}

func writeEvent(w io.Writer, evt *event.Event, verbose bool) {
	fmt.Fprintf(w, "  %s  %-4s %-8s %s\n",
		evt.Timestamp.UTC().Format("Mon 15:04"), evt.Currency, evt.Impact, evt.Name)
	if verbose {
		if evt.Actual != "" || evt.Forecast != "" || evt.Previous != "" {
			fmt.Fprintf(w, "            actual: %s  forecast: %s  previous: %s\n",
				orDash(evt.Actual), orDash(evt.Forecast), orDash(evt.Previous))
		}
		if len(evt.Sessions) > 0 {
			fmt.Fprintf(w, "            sessions: %v\n", evt.Sessions)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteSessions prints the static session table
func WriteSessions(w io.Writer, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, session.Table)
	}

	fmt.Fprintln(w, "Trading sessions (UTC):")
	for _, s := range session.Table {
		fmt.Fprintf(w, "  %-8s %s - %s\n", s.Name, s.Start, s.End)
	}
	return nil
}
