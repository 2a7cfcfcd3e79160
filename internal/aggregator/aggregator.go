package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pfrederiksen/macrocal/internal/cache"
	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/filter"
	"github.com/pfrederiksen/macrocal/internal/logger"
	"github.com/pfrederiksen/macrocal/internal/metrics"
	"github.com/pfrederiksen/macrocal/internal/scraper"
	"github.com/pfrederiksen/macrocal/internal/session"
)

// Format selects the output grouping shape.
type Format string

const (
	FormatDaily  Format = "daily"
	FormatWeekly Format = "weekly"
)

// Request describes one aggregation run. Zero values fall back to the
// injected clock: Year to the current ISO year, Weeks to the current ISO
// week, Day (daily format only) to the current UTC date.
type Request struct {
	Year    int
	Weeks   []int
	Day     string // "2006-01-02", daily format only
	Filters *filter.Spec
	Format  Format
}

// WeekFailure records one week that could not be fetched or parsed.
type WeekFailure struct {
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	ErrorKind string `json:"error_kind"`
}

// Result is the grouped outcome of an aggregation run. Groups maps a date
// key ("2025-08-07") or week key ("2025-W32") to its sorted events. Partial
// lists the weeks that failed; a populated Partial alongside populated
// Groups is a normal partial success, and all-empty Groups with a full
// Partial list means scraping failed outright rather than "no matches".
type Result struct {
	Groups  map[string][]*event.Event `json:"groups"`
	Total   int                       `json:"total"`
	Weeks   []string                  `json:"weeks"`
	Partial []WeekFailure             `json:"partial"`
}

// ValidationError rejects a malformed request before any fetch is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// WeekScraper is the fetch+parse dependency, satisfied by *scraper.Scraper.
type WeekScraper interface {
	ScrapeWeek(ctx context.Context, year, week int) ([]*event.Event, error)
}

// Aggregator runs week tasks over a bounded worker pool and merges results.
type Aggregator struct {
	scraper    WeekScraper
	cache      cache.Cache
	cacheTTL   time.Duration
	clock      Clock
	maxWorkers int
	maxWeeks   int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces the system clock (used by tests).
func WithClock(c Clock) Option {
	return func(a *Aggregator) { a.clock = c }
}

// WithCache enables week-result caching with the given TTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(a *Aggregator) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithLimits sets the worker-pool size and the per-request week cap.
func WithLimits(maxWorkers, maxWeeks int) Option {
	return func(a *Aggregator) {
		if maxWorkers > 0 {
			a.maxWorkers = maxWorkers
		}
		if maxWeeks > 0 {
			a.maxWeeks = maxWeeks
		}
	}
}

// New creates an Aggregator around the given week scraper.
func New(sc WeekScraper, opts ...Option) *Aggregator {
	a := &Aggregator{
		scraper:    sc,
		clock:      SystemClock(),
		maxWorkers: 4,
		maxWeeks:   4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the request: validate, scrape all weeks concurrently, tag
// sessions, filter, and group. Failed weeks land in Result.Partial; Run only
// returns an error for invalid input or a request cancelled before any week
// completed.
func (a *Aggregator) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(started).Seconds())
	}()

	year, weeks, day, err := a.normalize(req)
	if err != nil {
		return nil, err
	}

	merged, partial := a.scrapeAll(ctx, year, weeks)
	if len(merged) == 0 && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	session.TagAll(merged)
	merged = req.Filters.Apply(merged)
	event.Sort(merged)

	result := &Result{
		Groups:  a.group(merged, req.Format, day),
		Weeks:   weekKeys(year, weeks),
		Partial: partial,
	}
	for _, events := range result.Groups {
		result.Total += len(events)
	}

	logger.Info("aggregation finished", logger.Fields{
		"weeks":   len(weeks),
		"failed":  len(partial),
		"events":  result.Total,
		"elapsed": time.Since(started).String(),
	})
	return result, nil
}

// normalize validates the request and fills clock-based defaults.
func (a *Aggregator) normalize(req Request) (year int, weeks []int, day string, err error) {
	now := a.clock.Now()
	isoYear, isoWeek := now.ISOWeek()

	year = req.Year
	if year == 0 {
		year = isoYear
	}
	if year < 2000 || year > 2100 {
		return 0, nil, "", &ValidationError{Field: "year", Message: fmt.Sprintf("%d out of range", year)}
	}

	weeks = req.Weeks
	if len(weeks) == 0 {
		weeks = []int{isoWeek}
	}
	if len(weeks) > a.maxWeeks {
		return 0, nil, "", &ValidationError{Field: "weeks", Message: fmt.Sprintf("maximum %d weeks allowed", a.maxWeeks)}
	}
	for _, wk := range weeks {
		if wk < 1 || wk > 53 {
			return 0, nil, "", &ValidationError{Field: "weeks", Message: "week numbers must be between 1 and 53"}
		}
	}

	switch req.Format {
	case FormatDaily:
		day = req.Day
		if day == "" {
			day = now.Format("2006-01-02")
		} else if _, perr := time.Parse("2006-01-02", day); perr != nil {
			return 0, nil, "", &ValidationError{Field: "day", Message: "expected YYYY-MM-DD"}
		}
	case FormatWeekly:
	default:
		return 0, nil, "", &ValidationError{Field: "format", Message: `must be "daily" or "weekly"`}
	}

	return year, weeks, day, nil
}

// weekResult carries one finished week task into the merge step.
type weekResult struct {
	week   int
	events []*event.Event
	err    error
}

// scrapeAll runs one task per week over a bounded worker pool and merges the
// outcomes single-threaded.
func (a *Aggregator) scrapeAll(ctx context.Context, year int, weeks []int) ([]*event.Event, []WeekFailure) {
	workers := a.maxWorkers
	if len(weeks) < workers {
		workers = len(weeks)
	}

	jobs := make(chan int)
	results := make(chan weekResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for wk := range jobs {
				events, err := a.scrapeOne(ctx, year, wk)
				results <- weekResult{week: wk, events: events, err: err}
			}
		}()
	}

	go func() {
		for _, wk := range weeks {
			jobs <- wk
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make([]*event.Event, 0)
	partial := make([]WeekFailure, 0)
	for res := range results {
		if res.err != nil {
			partial = append(partial, WeekFailure{
				Year:      year,
				Week:      res.week,
				ErrorKind: errorKind(res.err),
			})
			logger.Warn("week task failed", logger.Fields{
				"year": year,
				"week": res.week,
				"kind": errorKind(res.err),
			})
			continue
		}
		merged = append(merged, res.events...)
	}

	// Deterministic partial ordering regardless of completion order.
	sort.Slice(partial, func(i, j int) bool { return partial[i].Week < partial[j].Week })
	return merged, partial
}

// scrapeOne resolves a single week, consulting the cache first.
func (a *Aggregator) scrapeOne(ctx context.Context, year, week int) ([]*event.Event, error) {
	key := cache.WeekKey(year, week)
	if a.cache != nil {
		if data, ok := a.cache.Get(ctx, key); ok {
			var events []*event.Event
			if err := cache.Unmarshal(data, &events); err == nil {
				metrics.CacheHits.Inc()
				return events, nil
			}
		}
		metrics.CacheMisses.Inc()
	}

	events, err := a.scraper.ScrapeWeek(ctx, year, week)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if data, err := cache.Marshal(events); err == nil {
			a.cache.Set(ctx, key, data, a.cacheTTL)
		}
	}
	return events, nil
}

// group shapes the merged events per the requested format. Daily output is
// restricted to the (defaulted) day; weekly output groups by ISO week.
func (a *Aggregator) group(events []*event.Event, format Format, day string) map[string][]*event.Event {
	groups := make(map[string][]*event.Event)

	if format == FormatDaily {
		groups[day] = make([]*event.Event, 0)
		for _, evt := range events {
			if evt.DateKey() == day {
				groups[day] = append(groups[day], evt)
			}
		}
		return groups
	}

	for _, evt := range events {
		groups[evt.WeekKey()] = append(groups[evt.WeekKey()], evt)
	}
	return groups
}

// errorKind maps a failed week task to its reported kind.
func errorKind(err error) string {
	var ferr *scraper.FetchError
	if errors.As(err, &ferr) {
		return string(ferr.Kind)
	}
	var perr *scraper.ParseError
	if errors.As(err, &perr) {
		return "UnrecognizedPageStructure"
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	return "Network"
}

func weekKeys(year int, weeks []int) []string {
	keys := make([]string, len(weeks))
	for i, wk := range weeks {
		keys[i] = fmt.Sprintf("%d-W%02d", year, wk)
	}
	return keys
}
