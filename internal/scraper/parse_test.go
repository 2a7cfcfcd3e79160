package scraper

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/pfrederiksen/macrocal/internal/event"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/sample_week.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func TestParseWeek(t *testing.T) {
	events, skipped, err := ParseWeek(loadFixture(t), 2025, 32)
	if err != nil {
		t.Fatalf("ParseWeek failed: %v", err)
	}

	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", skipped)
	}

	boe := events[1]
	if boe.Name != "BOE Interest Rate Decision" {
		t.Fatalf("events[1].Name = %q", boe.Name)
	}
	wantTS := time.Date(2025, 8, 7, 11, 0, 0, 0, time.UTC)
	if !boe.Timestamp.Equal(wantTS) {
		t.Errorf("timestamp = %v, expected %v", boe.Timestamp, wantTS)
	}
	if boe.Currency != "GBP" {
		t.Errorf("currency = %q, expected GBP", boe.Currency)
	}
	if boe.Impact != event.ImpactHigh {
		t.Errorf("impact = %q, expected High", boe.Impact)
	}
	if boe.Actual != "4.00%" || boe.Forecast != "4.00%" || boe.Previous != "4.25%" {
		t.Errorf("values = %q/%q/%q", boe.Actual, boe.Forecast, boe.Previous)
	}
	if boe.Year != 2025 || boe.Week != 32 {
		t.Errorf("year/week = %d/%d", boe.Year, boe.Week)
	}
}

func TestParseWeekImpactCanonicalized(t *testing.T) {
	events, _, err := ParseWeek(loadFixture(t), 2025, 32)
	if err != nil {
		t.Fatalf("ParseWeek failed: %v", err)
	}

	want := map[string]event.Impact{
		"Trade Balance":              event.ImpactLow,
		"BOE Interest Rate Decision": event.ImpactHigh,
		"Initial Jobless Claims":     event.ImpactMedium,
		"Bank Holiday":               event.ImpactUnknown,
		"Employment Change":          event.ImpactHigh,
	}
	for _, evt := range events {
		if evt.Impact != want[evt.Name] {
			t.Errorf("%s: impact = %q, expected %q", evt.Name, evt.Impact, want[evt.Name])
		}
	}
}

func TestParseWeekAllDayResolvesToMidnight(t *testing.T) {
	events, _, err := ParseWeek(loadFixture(t), 2025, 32)
	if err != nil {
		t.Fatalf("ParseWeek failed: %v", err)
	}

	var holiday *event.Event
	for _, evt := range events {
		if evt.Name == "Bank Holiday" {
			holiday = evt
		}
	}
	if holiday == nil {
		t.Fatal("Bank Holiday event not parsed")
	}
	want := time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	if !holiday.Timestamp.Equal(want) {
		t.Errorf("All Day timestamp = %v, expected %v", holiday.Timestamp, want)
	}
}

func TestParseWeekUnrecognizableStructure(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty document", ""},
		{"no day blocks", "<html><body><p>maintenance</p></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseWeek([]byte(tt.html), 2025, 32)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Year != 2025 || perr.Week != 32 {
				t.Errorf("ParseError week = %d-W%d", perr.Year, perr.Week)
			}
		})
	}
}

func TestParseWeekSkipsDecemberInWeekOne(t *testing.T) {
	html := `<html><body>
	<div class="Table-module__day___x">
	  <div class="Table-module__month___x">Dec</div>
	  <div class="Table-module__dayNumber___x">30</div>
	  <table><tbody><tr>
	    <td class="Table-module__time___x">09:00</td>
	    <td class="Table-module__currency___x">EUR</td>
	    <td class="Table-module__name___x">Stale December Event</td>
	    <td class="Table-module__impact___x">low</td>
	  </tr></tbody></table>
	</div>
	<div class="Table-module__day___x">
	  <div class="Table-module__month___x">Jan</div>
	  <div class="Table-module__dayNumber___x">2</div>
	  <table><tbody><tr>
	    <td class="Table-module__time___x">09:00</td>
	    <td class="Table-module__currency___x">EUR</td>
	    <td class="Table-module__name___x">German Retail Sales</td>
	    <td class="Table-module__impact___x">low</td>
	  </tr></tbody></table>
	</div>
	</body></html>`

	events, _, err := ParseWeek([]byte(html), 2026, 1)
	if err != nil {
		t.Fatalf("ParseWeek failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Name != "German Retail Sales" {
		t.Errorf("kept %q, expected the January event", events[0].Name)
	}
}

func TestParseWeekPositionalFallback(t *testing.T) {
	html := `<html><body>
	<div class="Table-module__day___x">
	  <div class="Table-module__month___x">Aug</div>
	  <div class="Table-module__dayNumber___x">7</div>
	  <table><tbody><tr>
	    <td>14:00</td><td>USD</td><td>Crude Oil Inventories</td><td>low</td>
	    <td>1.2M</td><td>0.9M</td><td>-2.4M</td>
	  </tr></tbody></table>
	</div>
	</body></html>`

	events, skipped, err := ParseWeek([]byte(html), 2025, 32)
	if err != nil {
		t.Fatalf("ParseWeek failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", skipped)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	evt := events[0]
	if evt.Currency != "USD" || evt.Name != "Crude Oil Inventories" {
		t.Errorf("positional fallback parsed %q/%q", evt.Currency, evt.Name)
	}
	want := time.Date(2025, 8, 7, 14, 0, 0, 0, time.UTC)
	if !evt.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, expected %v", evt.Timestamp, want)
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		text string
		hour int
		min  int
		ok   bool
	}{
		{"13:30", 13, 30, true},
		{"09", 9, 0, true},
		{"0:05", 0, 5, true},
		{"All Day", 0, 0, true},
		{"all day", 0, 0, true},
		{"", 0, 0, true},
		{"25:00", 0, 0, false},
		{"12:72", 0, 0, false},
		{"noon", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, m, ok := parseClockTime(tt.text)
			if ok != tt.ok || h != tt.hour || m != tt.min {
				t.Errorf("parseClockTime(%q) = %d, %d, %v; expected %d, %d, %v",
					tt.text, h, m, ok, tt.hour, tt.min, tt.ok)
			}
		})
	}
}
