package aggregator

import "time"

// Clock supplies the current time for default year/week/day resolution.
// Injecting it keeps defaulting deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the system time in UTC.
func SystemClock() Clock { return systemClock{} }
