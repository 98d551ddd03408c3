package workcal

import (
	"testing"
	"time"

	"github.com/username/worksite-calendar/internal/calendar"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// usHolidays marks Independence Day and Christmas 2025 for US only
var usHolidays = calendar.NewTable(
	calendar.Holiday{Date: day(2025, time.July, 4), Jurisdiction: "US", Name: "Independence Day"},
	calendar.Holiday{Date: day(2025, time.December, 25), Jurisdiction: "US", Name: "Christmas Day"},
)

func mustCompose(t testing.TB, raw RawConstraints, lookup calendar.HolidayLookup) ConstraintSet {
	t.Helper()
	cs, err := Compose(raw, lookup)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	return cs
}
