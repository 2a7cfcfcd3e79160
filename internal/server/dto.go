package server

import (
	"time"

	"github.com/pfrederiksen/macrocal/internal/aggregator"
	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/filter"
	"github.com/pfrederiksen/macrocal/internal/session"
)

// TimeRange bounds event timestamps as [from, to).
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// FilterParams is the wire shape of filter criteria.
type FilterParams struct {
	Impact    []string   `json:"impact,omitempty"`
	Pairs     []string   `json:"pairs,omitempty"`
	Sessions  []string   `json:"sessions,omitempty"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
	Keyword   string     `json:"keyword,omitempty"`
}

// Spec converts wire filter params into the engine's spec.
func (p *FilterParams) Spec() *filter.Spec {
	if p == nil {
		return nil
	}
	spec := &filter.Spec{
		Impact:   p.Impact,
		Pairs:    p.Pairs,
		Sessions: p.Sessions,
		Keyword:  p.Keyword,
	}
	if p.TimeRange != nil {
		from, to := p.TimeRange.From, p.TimeRange.To
		spec.TimeFrom = &from
		spec.TimeTo = &to
	}
	return spec
}

// ScrapeRequest is the POST /scrape payload. Missing year/weeks default to
// the current ISO year/week; missing day under daily format defaults to the
// current UTC date.
type ScrapeRequest struct {
	Year    int           `json:"year,omitempty"`
	Weeks   []int         `json:"weeks,omitempty"`
	Day     string        `json:"day,omitempty"`
	Filters *FilterParams `json:"filters,omitempty"`
	Format  string        `json:"format,omitempty"`
}

// ScrapeResponse is the scrape result envelope. Data groups events by date
// or ISO week per the requested format; Partial lists weeks that failed.
type ScrapeResponse struct {
	Success        bool                      `json:"success"`
	Data           map[string][]*event.Event `json:"data"`
	TotalEvents    int                       `json:"total_events"`
	WeeksScraped   []string                  `json:"weeks_scraped"`
	Partial        []aggregator.WeekFailure  `json:"partial"`
	FiltersApplied *FilterParams             `json:"filters_applied,omitempty"`
	ExecutionTime  float64                   `json:"execution_time"`
}

// SessionsResponse returns the static trading-session table.
type SessionsResponse struct {
	Sessions []session.Session `json:"sessions"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
