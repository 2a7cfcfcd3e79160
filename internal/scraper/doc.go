// Package scraper fetches and parses the source site's weekly economic
// calendar pages.
//
// Fetching targets one (year, ISO week) page per call over a pooled HTTP
// client, retrying transient failures (timeouts, 5xx, connection resets)
// with exponential backoff and jitter. Non-transient failures such as 404s
// fail immediately.
//
// Parsing walks the page's per-day calendar blocks and extracts one event
// per table row, combining the block's day context with the row's time
// field. Row-level problems skip the row and count it; only a structurally
// unrecognizable page fails the parse as a whole.
package scraper
