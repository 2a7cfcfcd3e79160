// Package event provides the core types for scraped economic-calendar events.
//
// An Event is one row of the source site's weekly calendar page: a scheduled
// economic release with a UTC timestamp, currency code, impact rating and
// optional indicator values. Impact ratings are canonicalized into a closed
// enum at the parse boundary so raw source strings never travel further than
// the parser.
package event
