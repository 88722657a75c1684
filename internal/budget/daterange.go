// Package budget implements the period allocation engine: date-range
// arithmetic, fixed/recurring budget allocation, gross/net commission
// conversion and the extension (top-up) operation.
package budget

import "time"

// Midnight strips all sub-day components, pinning the date to 00:00 UTC.
// Every day-count computation normalizes both sides through this so results
// are unaffected by time zones and daylight-saving shifts.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays returns the inclusive day count of [start, end]: a span of one
// day returns 1. Returns 0 when end precedes start; callers validate ranges
// before arithmetic, so the guard only keeps the function total.
func TotalDays(start, end time.Time) int {
	s, e := Midnight(start), Midnight(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// OverlapDays returns the inclusive number of calendar days shared by
// [aStart, aEnd] and [bStart, bEnd], or 0 when they do not intersect.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := Midnight(aStart)
	if b := Midnight(bStart); b.After(start) {
		start = b
	}
	end := Midnight(aEnd)
	if b := Midnight(bEnd); b.Before(end) {
		end = b
	}
	if start.After(end) {
		return 0
	}
	return TotalDays(start, end)
}

// MonthStart returns the first day of t's calendar month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's calendar month at midnight UTC.
// Correct for 28 to 31 day months and leap years: day 0 of the next month.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
