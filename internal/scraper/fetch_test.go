package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testScraper(url string) *Scraper {
	return New(
		WithBaseURL(url),
		WithRetryPolicy(2, time.Millisecond, 5*time.Millisecond),
	)
}

func fixtureHandler(t *testing.T, hook func(w http.ResponseWriter, r *http.Request) bool) http.HandlerFunc {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/sample_week.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if hook != nil && !hook(w, r) {
			return
		}
		w.Write(data)
	}
}

func TestFetchWeekSuccess(t *testing.T) {
	var gotWeek string
	srv := httptest.NewServer(fixtureHandler(t, func(w http.ResponseWriter, r *http.Request) bool {
		gotWeek = r.URL.Query().Get("week")
		return true
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	body, err := s.FetchWeek(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("FetchWeek failed: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty body")
	}
	if gotWeek != "2025-W07" {
		t.Errorf("week query param = %q, expected 2025-W07", gotWeek)
	}
}

func TestFetchWeekRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(fixtureHandler(t, func(w http.ResponseWriter, r *http.Request) bool {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return false
		}
		return true
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	if _, err := s.FetchWeek(context.Background(), 2025, 32); err != nil {
		t.Fatalf("FetchWeek failed after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchWeekExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	_, err := s.FetchWeek(context.Background(), 2025, 32)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Kind != FetchHTTPStatus || ferr.Status != http.StatusBadGateway {
		t.Errorf("kind = %s, status = %d", ferr.Kind, ferr.Status)
	}
	if ferr.Year != 2025 || ferr.Week != 32 {
		t.Errorf("error week = %d-W%d", ferr.Year, ferr.Week)
	}
	// Initial attempt plus two retries.
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchWeekNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	_, err := s.FetchWeek(context.Background(), 2025, 32)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Kind != FetchHTTPStatus {
		t.Errorf("kind = %s, expected HTTPStatus", ferr.Kind)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 attempt for 404, got %d", got)
	}
}

func TestFetchWeekShortResponseRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("<html>blocked</html>"))
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	_, err := s.FetchWeek(context.Background(), 2025, 32)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Kind != FetchNetwork {
		t.Errorf("kind = %s, expected Network", ferr.Kind)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchWeekTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := New(
		WithBaseURL(srv.URL),
		WithTimeout(20*time.Millisecond),
		WithRetryPolicy(1, time.Millisecond, time.Millisecond),
	)
	_, err := s.FetchWeek(context.Background(), 2025, 32)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Kind != FetchTimeout {
		t.Errorf("kind = %s, expected Timeout", ferr.Kind)
	}
}

func TestFetchWeekCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	s := testScraper(srv.URL)
	_, err := s.FetchWeek(ctx, 2025, 32)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScrapeWeek(t *testing.T) {
	srv := httptest.NewServer(fixtureHandler(t, nil))
	defer srv.Close()

	s := testScraper(srv.URL)
	events, err := s.ScrapeWeek(context.Background(), 2025, 32)
	if err != nil {
		t.Fatalf("ScrapeWeek failed: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
}

func TestWeekURL(t *testing.T) {
	s := New()
	got := s.WeekURL(2025, 7)
	want := DefaultBaseURL + "?week=2025-W07"
	if got != want {
		t.Errorf("WeekURL = %q, expected %q", got, want)
	}
}
