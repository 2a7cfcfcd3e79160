package scraper

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/macrocal/internal/event"
	"github.com/pfrederiksen/macrocal/internal/metrics"
)

// The source page carries hashed CSS-module class names like
// "Table-module__day___As54H". The hash suffix changes between site builds,
// so selectors match on the stable prefix only.
const (
	selDayBlock  = "div[class*='Table-module__day']"
	selMonth     = "div[class*='Table-module__month']"
	selDayNumber = "div[class*='Table-module__dayNumber']"
	selTime      = "td[class*='Table-module__time']"
	selCurrency  = "td[class*='Table-module__currency']"
	selName      = "td[class*='Table-module__name']"
	selImpact    = "td[class*='Table-module__impact']"
	selActual    = "td[class*='Table-module__actual']"
	selForecast  = "td[class*='Table-module__forecast']"
	selPrevious  = "td[class*='Table-module__previous']"
)

// dayContext is the date information shared by all rows of one calendar block.
type dayContext struct {
	year  int
	month time.Month
	day   int
}

// ParseWeek extracts events from a raw weekly calendar page. Rows with
// missing required cells or an unparseable time are skipped and counted in
// the second return value. A *ParseError is returned only when the page
// structure itself is unrecognizable.
func ParseWeek(raw []byte, year, week int) ([]*event.Event, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, &ParseError{Year: year, Week: week, Reason: fmt.Sprintf("parsing HTML: %v", err)}
	}

	blocks := doc.Find(selDayBlock)
	if blocks.Length() == 0 {
		return nil, 0, &ParseError{Year: year, Week: week, Reason: "no calendar day blocks found"}
	}

	events := make([]*event.Event, 0)
	skipped := 0

	blocks.Each(func(_ int, block *goquery.Selection) {
		day, ok := extractDay(block, year, week)
		if !ok {
			return
		}

		rows := eventRows(block)
		rows.Each(func(_ int, row *goquery.Selection) {
			evt, ok := extractEvent(row, day, year, week)
			if !ok {
				skipped++
				metrics.RowsSkipped.Inc()
				return
			}
			events = append(events, evt)
			metrics.EventsParsed.Inc()
		})
	})

	return events, skipped, nil
}

// extractDay pulls the month and day-of-month for a calendar block.
func extractDay(block *goquery.Selection, year, week int) (dayContext, bool) {
	monthText := strings.TrimSpace(block.Find(selMonth).First().Text())
	dayText := strings.TrimSpace(block.Find(selDayNumber).First().Text())
	if monthText == "" || dayText == "" {
		return dayContext{}, false
	}

	// Week 1 pages repeat the trailing December days of the previous year.
	if week == 1 && strings.EqualFold(monthText, "Dec") {
		return dayContext{}, false
	}

	month, ok := parseMonth(monthText)
	if !ok {
		return dayContext{}, false
	}
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 || day > 31 {
		return dayContext{}, false
	}

	return dayContext{year: year, month: month, day: day}, true
}

// eventRows selects the per-event table rows of a block, preferring tbody
// and falling back to all rows minus the header.
func eventRows(block *goquery.Selection) *goquery.Selection {
	if tbody := block.Find("tbody"); tbody.Length() > 0 {
		return tbody.Find("tr")
	}
	rows := block.Find("tr")
	if rows.Length() > 1 {
		return rows.Slice(1, rows.Length())
	}
	return rows
}

// extractEvent converts one table row into an Event. Returns false when
// required cells are missing or the time cannot be parsed.
func extractEvent(row *goquery.Selection, day dayContext, year, week int) (*event.Event, bool) {
	timeText := cellText(row, selTime)
	currency := cellText(row, selCurrency)
	name := cellText(row, selName)
	impact := cellText(row, selImpact)

	// Positional fallback when class-based extraction comes up short.
	if currency == "" || name == "" {
		cells := row.Find("td, th")
		if cells.Length() >= 4 {
			timeText = strings.TrimSpace(cells.Eq(0).Text())
			currency = strings.TrimSpace(cells.Eq(1).Text())
			name = strings.TrimSpace(cells.Eq(2).Text())
			impact = strings.TrimSpace(cells.Eq(3).Text())
		}
	}
	if currency == "" || name == "" {
		return nil, false
	}

	hour, min, ok := parseClockTime(timeText)
	if !ok {
		return nil, false
	}

	return &event.Event{
		Timestamp: time.Date(day.year, day.month, day.day, hour, min, 0, 0, time.UTC),
		Year:      year,
		Week:      week,
		Currency:  strings.ToUpper(currency),
		Name:      name,
		Impact:    event.ParseImpact(impact),
		Actual:    cellText(row, selActual),
		Forecast:  cellText(row, selForecast),
		Previous:  cellText(row, selPrevious),
	}, true
}

func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

// parseClockTime parses the row's time field. "All Day" and empty times
// resolve to midnight; otherwise "HH:MM" or bare "HH" is expected.
func parseClockTime(text string) (hour, min int, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "All Day") {
		return 0, 0, true
	}

	hh, mm, found := strings.Cut(text, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	if !found {
		return h, 0, true
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func parseMonth(name string) (time.Month, bool) {
	t, err := time.Parse("Jan", name)
	if err != nil {
		return 0, false
	}
	return t.Month(), true
}
