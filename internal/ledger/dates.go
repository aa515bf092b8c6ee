package ledger

import (
	"fmt"
	"math"
	"time"
)

// CycleLengthDays is the day offset added to a cycle's start date to obtain
// its end date. A cycle therefore spans 30 calendar days inclusive of both
// endpoints. Every cycle-creation path must use this constant.
const CycleLengthDays = 29

// dateLayout is the wire format for calendar dates
const dateLayout = "2006-01-02"

// AddDays returns the calendar date n days after d (n may be negative).
// It works on local calendar components so month, year and leap-year
// rollovers come out of time.Date normalization, never from UTC parsing.
func AddDays(d time.Time, n int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, d.Location())
}

// Today returns the current local calendar date at midnight.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// DaysUntil returns the signed day difference between d and today,
// at local-midnight granularity. Negative means d is in the past.
func DaysUntil(d time.Time) int {
	return DaysBetween(Today(), d)
}

// DaysBetween returns the signed number of calendar days from a to b.
// Both operands are truncated to their own local midnight first, so the
// result is insensitive to time-of-day. Rounding absorbs DST offsets.
func DaysBetween(a, b time.Time) int {
	from := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	to := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, from.Location())
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// ParseDate parses a YYYY-MM-DD string into a local calendar date.
// Malformed input is an error; this data feeds money calculations, so
// callers must not swallow it.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders a date for humans, e.g. "27-Feb-2026".
func FormatDate(d time.Time) string {
	return d.Format("02-Jan-2006")
}
