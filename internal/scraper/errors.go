package scraper

import "fmt"

// FetchErrorKind classifies why a week fetch ultimately failed.
type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "Timeout"
	FetchHTTPStatus FetchErrorKind = "HTTPStatus"
	FetchNetwork    FetchErrorKind = "Network"
)

// FetchError reports a week fetch that failed after exhausting retries, or
// immediately for non-transient responses.
type FetchError struct {
	Kind   FetchErrorKind
	Year   int
	Week   int
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching week %d-W%02d: %s (status %d)", e.Year, e.Week, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetching week %d-W%02d: %s: %v", e.Year, e.Week, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetching week %d-W%02d: %s", e.Year, e.Week, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a page whose overall structure could not be recognized.
// Row-level problems never produce a ParseError; they skip the row instead.
type ParseError struct {
	Year   int
	Week   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing week %d-W%02d: %s", e.Year, e.Week, e.Reason)
}
