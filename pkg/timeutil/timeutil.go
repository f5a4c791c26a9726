// Package timeutil holds small time.Duration conversion helpers shared
// across the repo (op latency logging, millisecond-granularity values).
package timeutil

import "time"

// ToMillis converts a non-negative duration to whole milliseconds.
func ToMillis(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

// ToSeconds converts a duration to seconds as a float.
func ToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// ToNanos converts a non-negative duration to whole nanoseconds.
func ToNanos(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d)
}
