// Package session tags events with the trading sessions active at their
// scheduled time.
//
// The session table is static reference data: four named market windows in
// UTC. Sydney's window wraps past midnight, so membership there is checked as
// "after start or before end". Tagging is a pure function of the event's
// UTC time of day and an event may fall in zero, one or several overlapping
// sessions (London and New York overlap 13:00-17:00).
package session
