package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the canonical day key format
const DayLayout = "2006-01-02"

// Day normalizes a value to UTC midnight of its own calendar day.
// The location of the input is only used to read Y/M/D, so the same
// wall-clock date maps to the same Day regardless of time fields.
func Day(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a Day from year, month and day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Key returns the day key (YYYY-MM-DD) for the given date
func Key(date time.Time) string {
	return date.Format(DayLayout)
}

// EndOfDay returns the end of the day (23:59:59.999) for the given date
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, date.Location())
}

// StartOfMonth returns the first day of the month as a Day
func StartOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last day of the month as a Day
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 0)
}

// Compare compares two dates at day granularity.
// Returns -1 if a is before b, 0 if same day, 1 if after.
func Compare(a, b time.Time) int {
	da, db := Day(a), Day(b)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

// InRange reports whether date lies within [from, to] inclusive, by day
func InRange(date, from, to time.Time) bool {
	return Compare(date, from) >= 0 && Compare(date, to) <= 0
}

// DaysBetween returns the number of calendar days from a to b (b - a)
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseDate parses date string in various formats and returns a Day
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		DayLayout,
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-0700",
	}

	s := strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognized month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// Today returns today's date as a Day
func Today() time.Time {
	return Day(time.Now())
}
