package scheduler

import "time"

// AddDays adds a signed day offset to a calendar date. Dates are opaque
// year/month/day values; no timezone conversion is applied.
//
// In business-day mode the offset counts only weekdays: the date steps one
// calendar day at a time in the sign direction, and the remaining count
// decreases only when the landed day is not a Saturday or Sunday. An offset
// of 0 returns the input unchanged in either mode.
func AddDays(t time.Time, offset int, businessDays bool) time.Time {
	if offset == 0 {
		return t
	}
	if !businessDays {
		return t.AddDate(0, 0, offset)
	}

	step := 1
	remaining := offset
	if offset < 0 {
		step = -1
		remaining = -offset
	}
	for remaining > 0 {
		t = t.AddDate(0, 0, step)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return t
}

// DateOnly truncates a time to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
