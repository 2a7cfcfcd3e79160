// Package filter provides predicate evaluation over scraped calendar events.
//
// A Spec holds independently optional dimensions (impact levels, currency
// codes, sessions, a time range and a name keyword). An absent dimension
// matches everything; present dimensions are ANDed. Specs are read-only
// descriptors: applying one never mutates the events and applying the same
// spec twice yields the same result.
package filter
