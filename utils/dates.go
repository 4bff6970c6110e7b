// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// BeginningOfQuarter returns midnight on the first day of t's quarter.
func BeginningOfQuarter(t time.Time) time.Time {
	year, month, _ := t.Date()
	first := time.Month((int(month)-1)/3*3 + 1)
	return time.Date(year, first, 1, 0, 0, 0, 0, t.Location())
}

func BeginningOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from start to end, each read in its own
// location. A 23 or 25 hour DST day still counts as one.
func DaysBetween(start, end time.Time) int {
	return int(civilDate(end).Sub(civilDate(start)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
