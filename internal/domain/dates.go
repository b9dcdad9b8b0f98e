package domain

import "time"

// All circulation arithmetic works on civil dates, not instants: a loan due
// at 2024-01-10 is overdue on the 11th regardless of clock time or zone.

// DateOnly truncates t to its civil date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day span from one civil date to another.
// The result is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)) / (24 * time.Hour))
}

// SameDate reports whether two instants fall on the same civil date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// dateAfter reports whether a's civil date is strictly after b's.
func dateAfter(a, b time.Time) bool {
	return DateOnly(a).After(DateOnly(b))
}

// dateBefore reports whether a's civil date is strictly before b's.
func dateBefore(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}
