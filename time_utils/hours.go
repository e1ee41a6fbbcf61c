package timeutils

import "time"

// FloorHour returns the given `t` rounded down to the nearest hour boundary
func FloorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// HourEndings returns `n` consecutive hour-ending timestamps, the first being
// one hour after `start`. Market operating plans are keyed by hour ending, so
// a plan starting at midnight has its first record at 01:00.
func HourEndings(start time.Time, n int) []time.Time {
	endings := make([]time.Time, n)
	for i := 0; i < n; i++ {
		endings[i] = start.Add(time.Duration(i+1) * time.Hour)
	}
	return endings
}

// StartOfNextDay returns midnight of the day after `t`, evaluated in `t`'s location.
func StartOfNextDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
