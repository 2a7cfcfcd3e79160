package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/macrocal/internal/event"
)

// Spec represents event filtering criteria. All dimensions are optional;
// empty means match-all for that dimension.
type Spec struct {
	// Impact levels to keep, matched case-insensitively ("high" == "High").
	Impact []string `json:"impact,omitempty"`

	// Pairs holds single currency codes ("USD", "EUR"); an event matches
	// when its currency is in the set, ignoring case.
	Pairs []string `json:"pairs,omitempty"`

	// Sessions to keep; an event matches on any overlap with its own tags.
	Sessions []string `json:"sessions,omitempty"`

	// Time range [From, To) applied to the event timestamp.
	TimeFrom *time.Time `json:"time_from,omitempty"`
	TimeTo   *time.Time `json:"time_to,omitempty"`

	// Keyword is a case-insensitive substring match against the event name.
	Keyword string `json:"keyword,omitempty"`
}

// IsEmpty checks if the spec has any active criteria.
// Returns true if the spec would match all events.
func (s *Spec) IsEmpty() bool {
	return s == nil ||
		(len(s.Impact) == 0 &&
			len(s.Pairs) == 0 &&
			len(s.Sessions) == 0 &&
			s.TimeFrom == nil &&
			s.TimeTo == nil &&
			s.Keyword == "")
}

// Matches checks if an event passes all active dimensions. Dimensions are
// checked cheapest first and short-circuit on the first failure; the result
// is a pure conjunction so ordering is not observable.
func (s *Spec) Matches(evt *event.Event) bool {
	if s.IsEmpty() {
		return true
	}

	if len(s.Impact) > 0 {
		matched := false
		for _, imp := range s.Impact {
			if evt.Impact.Equal(imp) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(s.Pairs) > 0 {
		matched := false
		for _, pair := range s.Pairs {
			if strings.EqualFold(evt.Currency, strings.TrimSpace(pair)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(s.Sessions) > 0 {
		matched := false
		for _, want := range s.Sessions {
			for _, have := range evt.Sessions {
				if strings.EqualFold(have, want) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	if s.TimeFrom != nil && evt.Timestamp.Before(*s.TimeFrom) {
		return false
	}
	if s.TimeTo != nil && !evt.Timestamp.Before(*s.TimeTo) {
		return false
	}

	if s.Keyword != "" {
		if !strings.Contains(strings.ToLower(evt.Name), strings.ToLower(s.Keyword)) {
			return false
		}
	}

	return true
}

// Apply returns the events matching the spec. An empty spec returns the
// input unchanged; otherwise a new slice is returned and the input is left
// untouched.
func (s *Spec) Apply(events []*event.Event) []*event.Event {
	if s.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if s.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Returns "No active filters" if the spec is empty.
func (s *Spec) String() string {
	if s.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(s.Impact) > 0 {
		parts = append(parts, fmt.Sprintf("Impact: %s", strings.Join(s.Impact, ", ")))
	}
	if len(s.Pairs) > 0 {
		parts = append(parts, fmt.Sprintf("Pairs: %s", strings.Join(s.Pairs, ", ")))
	}
	if len(s.Sessions) > 0 {
		parts = append(parts, fmt.Sprintf("Sessions: %s", strings.Join(s.Sessions, ", ")))
	}
	if s.TimeFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", s.TimeFrom.UTC().Format(time.RFC3339)))
	}
	if s.TimeTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", s.TimeTo.UTC().Format(time.RFC3339)))
	}
	if s.Keyword != "" {
		parts = append(parts, fmt.Sprintf("Keyword: %s", s.Keyword))
	}
	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the spec. Slices and time pointers are copied
// to new memory so modifying the clone never affects the original.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}

	clone := &Spec{Keyword: s.Keyword}

	if len(s.Impact) > 0 {
		clone.Impact = append([]string(nil), s.Impact...)
	}
	if len(s.Pairs) > 0 {
		clone.Pairs = append([]string(nil), s.Pairs...)
	}
	if len(s.Sessions) > 0 {
		clone.Sessions = append([]string(nil), s.Sessions...)
	}
	if s.TimeFrom != nil {
		from := *s.TimeFrom
		clone.TimeFrom = &from
	}
	if s.TimeTo != nil {
		to := *s.TimeTo
		clone.TimeTo = &to
	}

	return clone
}
