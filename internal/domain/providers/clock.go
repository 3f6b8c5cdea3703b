package providers

import "time"

// Clock abstracts wall-clock time so time-window filtering is deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
