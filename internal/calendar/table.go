package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// Table is an immutable, pre-resolved holiday lookup
type Table struct {
	days map[string]map[string]Holiday // jurisdiction -> day key -> holiday
}

// NewTable builds a Table from a list of holidays. Later duplicates win.
func NewTable(holidays ...Holiday) *Table {
	t := &Table{days: make(map[string]map[string]Holiday)}
	for _, h := range holidays {
		j := NormalizeJurisdiction(h.Jurisdiction)
		if t.days[j] == nil {
			t.days[j] = make(map[string]Holiday)
		}
		h.Jurisdiction = j
		h.Date = dateutil.Day(h.Date)
		t.days[j][dateutil.Key(h.Date)] = h
	}
	return t
}

// Merge returns a new Table holding the holidays of both tables
func (t *Table) Merge(other *Table) *Table {
	all := t.All()
	if other != nil {
		all = append(all, other.All()...)
	}
	return NewTable(all...)
}

// IsHoliday checks if the date is a holiday in the jurisdiction
func (t *Table) IsHoliday(date time.Time, jurisdiction string) bool {
	if t == nil {
		return false
	}
	_, ok := t.days[NormalizeJurisdiction(jurisdiction)][dateutil.Key(date)]
	return ok
}

// Holidays returns holidays of the jurisdiction within [from, to], ascending
func (t *Table) Holidays(jurisdiction string, from, to time.Time) []Holiday {
	if t == nil {
		return nil
	}
	var result []Holiday
	for _, h := range t.days[NormalizeJurisdiction(jurisdiction)] {
		if dateutil.InRange(h.Date, from, to) {
			result = append(result, h)
		}
	}
	sortHolidays(result)
	return result
}

// All returns every holiday in the table
func (t *Table) All() []Holiday {
	if t == nil {
		return nil
	}
	var result []Holiday
	for _, byDay := range t.days {
		for _, h := range byDay {
			result = append(result, h)
		}
	}
	sortHolidays(result)
	return result
}

// Jurisdictions lists the jurisdictions that have at least one holiday, sorted
func (t *Table) Jurisdictions() []string {
	if t == nil {
		return nil
	}
	result := make([]string, 0, len(t.days))
	for j := range t.days {
		result = append(result, j)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of holidays across all jurisdictions
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, byDay := range t.days {
		n += len(byDay)
	}
	return n
}

// NormalizeJurisdiction upper-cases and trims a jurisdiction code
func NormalizeJurisdiction(j string) string {
	return strings.ToUpper(strings.TrimSpace(j))
}

func sortHolidays(hs []Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if !hs[i].Date.Equal(hs[j].Date) {
			return hs[i].Date.Before(hs[j].Date)
		}
		return hs[i].Jurisdiction < hs[j].Jurisdiction
	})
}
