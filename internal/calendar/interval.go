// Package calendar implements the recurrence expansion and resource
// availability engine. Everything in it is a pure computation over
// caller-supplied data: no hidden cursors, no shared mutable state, and every
// function is independently re-entrant.
package calendar

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints (aEnd == bStart) do not count
// as overlap, so back-to-back bookings never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SameCalendarDay compares year/month/day only, ignoring time-of-day. An
// all-day and a timed event on the same date are treated identically for
// exclusion matching.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth caps day to the last valid day of the given month, so a
// "31st of every month" pattern lands on Feb 28/29 instead of rolling over.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if last := lastDayOfMonth(year, month); day > last {
		return last
	}
	return day
}
