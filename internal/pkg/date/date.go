// Package date holds helpers for calendar dates. A calendar date is a
// time.Time at 00:00 UTC; ranges over dates are half-open [start, end).
package date

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Of returns the calendar date of t, keeping t's own year, month and day.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New builds a calendar date.
func New(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Parse parses a "2006-01-02" string into a calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders a calendar date in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Nights counts the nights in [start, end). It is zero or negative for empty ranges.
// Counting from Unix seconds keeps ranges beyond time.Duration's ~292 years exact.
func Nights(start, end time.Time) int64 {
	return (Of(end).Unix() - Of(start).Unix()) / secondsPerDay
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least one day.
// Touching ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Within reports whether [start, end) lies inside [outerStart, outerEnd).
func Within(start, end, outerStart, outerEnd time.Time) bool {
	return !start.Before(outerStart) && !end.After(outerEnd)
}
