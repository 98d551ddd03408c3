package calendar

import (
	"sort"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// Builtin resolves holidays from rule-based business calendars.
// Both the actual date and the observed (substitute) date of a holiday
// count, since a site is closed on either.
type Builtin struct {
	calendars map[string]*cal.BusinessCalendar
}

// NewBuiltin creates the built-in jurisdictions: US, US-FED, GB, CA
func NewBuiltin() *Builtin {
	b := &Builtin{calendars: make(map[string]*cal.BusinessCalendar)}

	b.add("US", us.Holidays...)
	b.add("US-FED",
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	b.add("GB", gb.Holidays...)
	b.add("CA", ca.Holidays...)

	return b
}

func (b *Builtin) add(jurisdiction string, holidays ...*cal.Holiday) {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	b.calendars[jurisdiction] = c
}

// Supports reports whether the jurisdiction has a built-in calendar
func (b *Builtin) Supports(jurisdiction string) bool {
	_, ok := b.calendars[NormalizeJurisdiction(jurisdiction)]
	return ok
}

// Jurisdictions lists built-in jurisdiction codes, sorted
func (b *Builtin) Jurisdictions() []string {
	codes := make([]string, 0, len(b.calendars))
	for code := range b.calendars {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsHoliday checks the jurisdiction's calendar. Unknown jurisdictions have no holidays.
func (b *Builtin) IsHoliday(date time.Time, jurisdiction string) bool {
	c, ok := b.calendars[NormalizeJurisdiction(jurisdiction)]
	if !ok {
		return false
	}
	actual, observed, _ := c.IsHoliday(dateutil.Day(date))
	return actual || observed
}

// Table expands the jurisdiction's holidays for a year into a Table.
// Used to list holidays and to merge built-in rules with file overrides.
func (b *Builtin) Table(jurisdiction string, year int) *Table {
	j := NormalizeJurisdiction(jurisdiction)
	c, ok := b.calendars[j]
	if !ok {
		return NewTable()
	}

	var holidays []Holiday
	from := dateutil.Date(year, time.January, 1)
	to := dateutil.Date(year, time.December, 31)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		actual, observed, h := c.IsHoliday(d)
		if !actual && !observed {
			continue
		}
		name := ""
		if h != nil {
			name = h.Name
		}
		if observed && !actual {
			name += " (observed)"
		}
		holidays = append(holidays, Holiday{Date: d, Jurisdiction: j, Name: name})
	}
	return NewTable(holidays...)
}
