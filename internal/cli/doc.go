// Package cli implements the macrocal command line interface.
//
// The scrape command runs the same aggregation pipeline as the HTTP API and
// prints grouped events as text or JSON. The sessions command prints the
// static trading-session table, and notify posts high-impact events for the
// requested week to Twitter (dry-run by default).
package cli
