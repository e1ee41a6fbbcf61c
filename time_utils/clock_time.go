package timeutils

import "time"

// ClockTime represents a time of day in the given locale, without a date.
type ClockTime struct {
	Hour     int
	Minute   int
	Second   int
	Location *time.Location
}

// OnDate returns a time with the given clock time on the given date
func (c *ClockTime) OnDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, c.Hour, c.Minute, c.Second, 0, c.Location)
}

// OnDay returns a time with the given clock time on the same day as `t`.
// The day is evaluated in the ClockTime's location, not the location of `t`.
func (c *ClockTime) OnDay(t time.Time) time.Time {
	year, month, day := t.In(c.Location).Date()
	return c.OnDate(year, month, day)
}
