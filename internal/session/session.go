package session

import (
	"strings"
	"time"

	"github.com/pfrederiksen/macrocal/internal/event"
)

// Session is a named trading-market window in UTC. Start and End are "HH:MM"
// display strings; a window starting later than it ends wraps across midnight.
type Session struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`

	startMin int
	endMin   int
}

// Table is the static session reference data, in display order.
// Not mutated at runtime.
var Table = []Session{
	newSession("Sydney", 22*60, 7*60),
	newSession("Tokyo", 0, 9*60),
	newSession("London", 8*60, 17*60),
	newSession("NewYork", 13*60, 22*60),
}

func newSession(name string, start, end int) Session {
	return Session{
		Name:     name,
		Start:    formatMinutes(start),
		End:      formatMinutes(end),
		startMin: start,
		endMin:   end,
	}
}

func formatMinutes(m int) string {
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}

// Contains reports whether the given UTC time of day (minutes past midnight)
// falls inside the session window. Membership is [start, end); wrapping
// windows match after start or before end.
func (s Session) Contains(minOfDay int) bool {
	if s.startMin > s.endMin {
		return minOfDay >= s.startMin || minOfDay < s.endMin
	}
	return minOfDay >= s.startMin && minOfDay < s.endMin
}

// Tag populates evt.Sessions from its timestamp. Any previously stored tags
// are replaced, so re-tagging is idempotent and the session set always
// reflects the current timestamp.
func Tag(evt *event.Event) {
	minOfDay := evt.Timestamp.UTC().Hour()*60 + evt.Timestamp.UTC().Minute()

	tags := make([]string, 0, 2)
	for _, s := range Table {
		if s.Contains(minOfDay) {
			tags = append(tags, s.Name)
		}
	}
	evt.Sessions = tags
}

// TagAll tags every event in the slice in place.
func TagAll(events []*event.Event) {
	for _, evt := range events {
		Tag(evt)
	}
}

// Valid reports whether name is a known session, ignoring case.
func Valid(name string) bool {
	for _, s := range Table {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
