package dispatch

import "time"

// Clock supplies time to the dispatch pipeline. Now returns a time.Time
// carrying Go's monotonic reading, so cooldown arithmetic via Sub is immune
// to wall-clock adjustments; wall-clock formatting uses the same value.
// Tests substitute a deterministic implementation.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the real-time clock.
func SystemClock() Clock {
	return systemClock{}
}

// isoTimestamp formats t as an ISO-8601 UTC string for history and status.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
