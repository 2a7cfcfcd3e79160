// Package notifier provides notification interfaces and implementations for
// upcoming economic-calendar events.
//
// The notifier package supports posting event alerts to Twitter. It handles
// OAuth authentication, rate limiting between posts, and message formatting.
// A dry-run implementation prints the would-be posts for local testing.
package notifier
