package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/macrocal/internal/aggregator"
	"github.com/pfrederiksen/macrocal/internal/config"
	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/filter"
	"github.com/pfrederiksen/macrocal/internal/notifier"
	"github.com/pfrederiksen/macrocal/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagYear     int
	flagWeeks    []int
	flagDay      string
	flagFormat   string
	flagImpact   []string
	flagPairs    []string
	flagSessions []string
	flagKeyword  string
	flagOutput   string
	flagVerbose  bool
	flagDryRun   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "macrocal",
		Short: "Scrape and filter the weekly economic calendar",
		Long: `A CLI tool to scrape economic-calendar events by ISO week.
Fetches the requested weeks concurrently, tags each event with its active
trading sessions, and prints the filtered result grouped by day or week.`,
		SilenceUsage: true,
	}

	root.AddCommand(newScrapeCmd(), newSessionsCmd(), newNotifyCmd())
	return root
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch calendar events for one or more weeks",
		RunE:  runScrape,
	}

	cmd.Flags().IntVar(&flagYear, "year", 0, "Year to scrape (defaults to current year)")
	cmd.Flags().IntSliceVar(&flagWeeks, "weeks", nil, "ISO week numbers, max 4 (defaults to current week)")
	cmd.Flags().StringVar(&flagDay, "day", "", "Restrict daily output to this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagFormat, "format", "weekly", "Grouping: daily or weekly")
	cmd.Flags().StringSliceVar(&flagImpact, "impact", nil, "Impact filter: Low, Medium, High")
	cmd.Flags().StringSliceVar(&flagPairs, "pairs", nil, "Currency filter, e.g. USD,EUR")
	cmd.Flags().StringSliceVar(&flagSessions, "sessions", nil, "Session filter: Sydney, Tokyo, London, NewYork")
	cmd.Flags().StringVar(&flagKeyword, "keyword", "", "Keyword filter on event names")
	cmd.Flags().StringVar(&flagOutput, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Show actual/forecast/previous values")

	return cmd
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "Print the trading-session reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteSessions(os.Stdout, OutputFormat(strings.ToLower(flagOutput)))
		},
	}
}

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Post high-impact events for the requested week to Twitter",
		RunE:  runNotify,
	}
	cmd.Flags().IntVar(&flagYear, "year", 0, "Year to scrape (defaults to current year)")
	cmd.Flags().IntSliceVar(&flagWeeks, "weeks", nil, "ISO week numbers (defaults to current week)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", true, "Print tweets instead of posting")
	return cmd
}

// runScrape is the main scrape command logic
func runScrape(cmd *cobra.Command, args []string) error {
	output := OutputFormat(strings.ToLower(flagOutput))
	if output != FormatText && output != FormatJSON {
		return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", flagOutput)
	}

	result, err := runPipeline(cmd, buildFilterSpec())
	if err != nil {
		return err
	}

	return WriteOutput(os.Stdout, result, output, flagVerbose)
}

// runNotify scrapes the requested week and posts its high-impact events.
func runNotify(cmd *cobra.Command, args []string) error {
	result, err := runPipeline(cmd, &filter.Spec{Impact: []string{string(event.ImpactHigh)}})
	if err != nil {
		return err
	}

	events := make([]*event.Event, 0)
	for _, group := range result.Groups {
		events = append(events, group...)
	}
	event.Sort(events)

	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "No high-impact events to post.")
		return nil
	}

	var n notifier.Notifier
	if flagDryRun {
		n = notifier.NewDryRunNotifier(os.Stdout)
	} else {
		tn, err := notifier.NewTwitterNotifier()
		if err != nil {
			return fmt.Errorf("creating notifier: %w", err)
		}
		n = tn
	}
	return n.Notify(events)
}

// runPipeline wires config, scraper and aggregator for one CLI invocation.
func runPipeline(cmd *cobra.Command, spec *filter.Spec) (*aggregator.Result, error) {
	cfg := config.Load()

	sc := scraper.New(
		scraper.WithBaseURL(cfg.CalendarBaseURL),
		scraper.WithTimeout(cfg.FetchTimeout),
		scraper.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.RetryMaxDelay),
	)
	agg := aggregator.New(sc, aggregator.WithLimits(cfg.MaxWorkers, cfg.MaxWeeks))

	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Fetching from %s\n", cfg.CalendarBaseURL)
	}

	result, err := agg.Run(cmd.Context(), aggregator.Request{
		Year:    flagYear,
		Weeks:   flagWeeks,
		Day:     flagDay,
		Filters: spec,
		Format:  aggregator.Format(flagFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("scraping calendar: %w", err)
	}
	return result, nil
}

func buildFilterSpec() *filter.Spec {
	spec := &filter.Spec{
		Impact:   flagImpact,
		Pairs:    flagPairs,
		Sessions: flagSessions,
		Keyword:  flagKeyword,
	}
	if spec.IsEmpty() {
		return nil
	}
	return spec
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
