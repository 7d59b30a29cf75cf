// Package calendar holds date helpers shared by pricing, validation and search.
//
// A calendar date is a time.Time at midnight UTC. Use Date, Truncate or Parse to
// build one so that equality and day arithmetic behave.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Date returns the calendar date for the given year, month and day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsPeakSeason reports whether the date falls in July or August of any year.
func IsPeakSeason(t time.Time) bool {
	m := t.Month()
	return m == time.July || m == time.August
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole days from start to end.
// It is negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Unix()/secondsPerDay - Truncate(start).Unix()/secondsPerDay)
}

// EachDay calls fn for every date in [start, end], inclusive on both ends.
// Iteration stops early when fn returns false.
func EachDay(start, end time.Time, fn func(day time.Time) bool) {
	end = Truncate(end)
	for d := Truncate(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

// Overlaps reports whether the inclusive ranges [s1, e1] and [s2, e2] share a day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}
