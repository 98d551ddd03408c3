package calendar

import (
	"context"
	"time"
)

// Holiday is a single public holiday in a jurisdiction
type Holiday struct {
	Date         time.Time
	Jurisdiction string
	Name         string
}

// HolidayLookup answers whether a date is a public holiday in a jurisdiction.
// Implementations must be total: no I/O, no errors, safe for concurrent use.
type HolidayLookup interface {
	IsHoliday(date time.Time, jurisdiction string) bool
}

// LookupFunc adapts a plain function to HolidayLookup
type LookupFunc func(date time.Time, jurisdiction string) bool

// IsHoliday calls f(date, jurisdiction)
func (f LookupFunc) IsHoliday(date time.Time, jurisdiction string) bool {
	return f(date, jurisdiction)
}

// NoHolidays is a lookup that never reports a holiday
var NoHolidays HolidayLookup = LookupFunc(func(time.Time, string) bool { return false })

// Source fetches the holidays of one jurisdiction for a whole year.
// Sources may hit the network; their results are resolved into a Table
// before the work-day engine sees them.
type Source interface {
	FetchYear(ctx context.Context, jurisdiction string, year int) ([]Holiday, error)
}
