package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/logger"
	"github.com/pfrederiksen/macrocal/internal/metrics"
)

const (
	DefaultBaseURL = "https://www.babypips.com/economic-calendar"
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout = 30 * time.Second

	// Responses under this size are stub pages the site serves to blocked
	// scrapers; treat them as transient and retry.
	minResponseBytes = 1000
)

// Scraper fetches and parses weekly calendar pages. The underlying HTTP
// client reuses pooled connections across calls, so one Scraper should be
// shared by all concurrent week tasks.
type Scraper struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL overrides the calendar page URL (used by tests and config).
func WithBaseURL(url string) Option {
	return func(s *Scraper) { s.baseURL = url }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithRetryPolicy sets the retry count and backoff delays for transient
// fetch failures.
func WithRetryPolicy(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(s *Scraper) {
		s.maxRetries = maxRetries
		s.baseDelay = baseDelay
		s.maxDelay = maxDelay
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		baseURL:    DefaultBaseURL,
		maxRetries: 3,
		baseDelay:  time.Second,
		maxDelay:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WeekURL builds the source URL for a (year, ISO week) pair,
// e.g. ".../economic-calendar?week=2025-W32".
func (s *Scraper) WeekURL(year, week int) string {
	return fmt.Sprintf("%s?week=%d-W%02d", s.baseURL, year, week)
}

// statusError marks an HTTP response outside 2xx so retry classification can
// tell status failures from transport failures.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

var errShortResponse = errors.New("response too short, possibly blocked")

// FetchWeek fetches the raw calendar page for one week. Transient failures
// are retried with exponential backoff and jitter up to the configured
// attempt count; 4xx responses (except 429) fail immediately. After
// exhausting retries the error is a *FetchError carrying the week and the
// failure kind.
func (s *Scraper) FetchWeek(ctx context.Context, year, week int) ([]byte, error) {
	url := s.WeekURL(year, week)

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		b, err := s.fetchOnce(ctx, url)
		if err != nil {
			metrics.FetchAttempts.WithLabelValues("error").Inc()
			logger.Warn("fetch attempt failed", logger.Fields{
				"url":     url,
				"attempt": attempt,
			})
			var se *statusError
			if errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		metrics.FetchAttempts.WithLabelValues("ok").Inc()
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.baseDelay
	policy.MaxInterval = s.maxDelay
	policy.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.maxRetries)), ctx))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		ferr := s.wrapFetchError(err, year, week)
		metrics.FetchFailures.WithLabelValues(string(ferr.Kind)).Inc()
		return nil, ferr
	}
	return body, nil
}

// fetchOnce performs a single GET against the calendar page.
func (s *Scraper) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) < minResponseBytes {
		return nil, errShortResponse
	}
	return body, nil
}

// wrapFetchError classifies an exhausted retry error into a FetchError kind.
func (s *Scraper) wrapFetchError(err error, year, week int) *FetchError {
	ferr := &FetchError{Year: year, Week: week, Err: err}

	var se *statusError
	var ne net.Error
	switch {
	case errors.As(err, &se):
		ferr.Kind = FetchHTTPStatus
		ferr.Status = se.code
	case errors.Is(err, context.DeadlineExceeded):
		ferr.Kind = FetchTimeout
	case errors.As(err, &ne) && ne.Timeout():
		ferr.Kind = FetchTimeout
	default:
		ferr.Kind = FetchNetwork
	}
	return ferr
}

// ScrapeWeek fetches and parses one week's events.
func (s *Scraper) ScrapeWeek(ctx context.Context, year, week int) ([]*event.Event, error) {
	body, err := s.FetchWeek(ctx, year, week)
	if err != nil {
		return nil, err
	}

	events, skipped, err := ParseWeek(body, year, week)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("rows skipped during parse", logger.Fields{
			"year":    year,
			"week":    week,
			"skipped": skipped,
		})
	}
	logger.Info("week scraped", logger.Fields{
		"year":   year,
		"week":   week,
		"events": len(events),
	})
	return events, nil
}
