// Package metrics exposes Prometheus collectors for the scraping pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "macrocal_fetch_attempts_total",
		Help: "HTTP fetch attempts against the calendar source, including retries.",
	}, []string{"outcome"})

	FetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "macrocal_fetch_failures_total",
		Help: "Week fetches that exhausted retries, by error kind.",
	}, []string{"kind"})

	EventsParsed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "macrocal_events_parsed_total",
		Help: "Calendar rows successfully parsed into events.",
	})

	RowsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "macrocal_rows_skipped_total",
		Help: "Calendar rows skipped because of row-level parse issues.",
	})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "macrocal_week_cache_hits_total",
		Help: "Week results served from cache.",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "macrocal_week_cache_misses_total",
		Help: "Week results that required a fresh scrape.",
	})

	ScrapeDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "macrocal_scrape_duration_seconds",
		Help: "End-to-end duration of scrape requests.",
	})
)

func init() {
	prometheus.MustRegister(
		FetchAttempts,
		FetchFailures,
		EventsParsed,
		RowsSkipped,
		CacheHits,
		CacheMisses,
		ScrapeDuration,
	)
}

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
