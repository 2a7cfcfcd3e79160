package event

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event represents one scheduled economic release scraped from the weekly
// calendar page. Timestamp is always UTC. Sessions is derived from Timestamp
// by the session package and is never scraped.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	Currency  string    `json:"currency"`
	Name      string    `json:"name"`
	Impact    Impact    `json:"impact"`
	Actual    string    `json:"actual,omitempty"`
	Forecast  string    `json:"forecast,omitempty"`
	Previous  string    `json:"previous,omitempty"`
	Sessions  []string  `json:"sessions"`
}

// DateKey returns the calendar-date grouping key for the event, e.g. "2025-08-07".
func (e *Event) DateKey() string {
	return e.Timestamp.UTC().Format("2006-01-02")
}

// WeekKey returns the ISO-week grouping key for the event, e.g. "2025-W32".
func (e *Event) WeekKey() string {
	return fmt.Sprintf("%d-W%02d", e.Year, e.Week)
}

// Sort orders events deterministically by timestamp, then currency, then name.
// The aggregator merges per-week results in completion order, so output
// ordering must not depend on which week finished first.
func Sort(events []*Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
