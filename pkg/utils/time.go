package utils

import "time"

// TimeDiff returns the seconds elapsed between start and end. The result is
// monotonic only when both times carry a monotonic clock reading.
func TimeDiff(start, end time.Time) float64 {
	return end.Sub(start).Seconds()
}
