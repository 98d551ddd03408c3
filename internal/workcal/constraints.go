// Package workcal decides which calendar days are usable for construction work
// and drives interactive single-date and range selection on top of that decision.
//
// Everything here is pure: a ConstraintSet is immutable, each predicate call
// depends only on its arguments, and selection transitions return new states.
package workcal

import (
	"sort"
	"time"

	"github.com/username/worksite-calendar/internal/calendar"
	"github.com/username/worksite-calendar/pkg/dateutil"
)

// dateSet is a set of days keyed by YYYY-MM-DD
type dateSet map[string]time.Time

func newDateSet(dates []time.Time) dateSet {
	s := make(dateSet, len(dates))
	for _, d := range dates {
		day := dateutil.Day(d)
		s[dateutil.Key(day)] = day
	}
	return s
}

func (s dateSet) contains(date time.Time) bool {
	_, ok := s[dateutil.Key(dateutil.Day(date))]
	return ok
}

func (s dateSet) sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for _, d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// bound is an optional inclusive day bound
type bound struct {
	date time.Time
	set  bool
}

func newBound(t *time.Time) bound {
	if t == nil {
		return bound{}
	}
	return bound{date: dateutil.Day(*t), set: true}
}

func (b bound) get() (time.Time, bool) {
	return b.date, b.set
}

// ConstraintSet is the fully-defaulted rule set evaluated per date.
// Build it with Compose; the zero value allows every date and has no holidays.
type ConstraintSet struct {
	preset          Preset
	excludeWeekends bool
	excludeHolidays bool
	jurisdiction    string
	holidays        calendar.HolidayLookup
	blocked         dateSet
	blockRules      []blockRule
	weather         dateSet
	minDate         bound
	maxDate         bound
	projectStart    bound
	projectEnd      bound
	criticalPath    bool
}

// Preset returns the preset the set was composed from
func (c ConstraintSet) Preset() Preset { return c.preset }

// ExcludeWeekends reports whether Saturdays and Sundays are excluded
func (c ConstraintSet) ExcludeWeekends() bool { return c.excludeWeekends }

// ExcludeHolidays reports whether public holidays are excluded
func (c ConstraintSet) ExcludeHolidays() bool { return c.excludeHolidays }

// Jurisdiction is the code passed to the holiday lookup
func (c ConstraintSet) Jurisdiction() string { return c.jurisdiction }

// CriticalPath reports whether selected ranges are schedule-critical
func (c ConstraintSet) CriticalPath() bool { return c.criticalPath }

// MinDate returns the inclusive lower bound, if set
func (c ConstraintSet) MinDate() (time.Time, bool) { return c.minDate.get() }

// MaxDate returns the inclusive upper bound, if set
func (c ConstraintSet) MaxDate() (time.Time, bool) { return c.maxDate.get() }

// ProjectStartDate returns the project start boundary, if set
func (c ConstraintSet) ProjectStartDate() (time.Time, bool) { return c.projectStart.get() }

// ProjectEndDate returns the project end boundary, if set
func (c ConstraintSet) ProjectEndDate() (time.Time, bool) { return c.projectEnd.get() }

// BlockedDates returns explicit blocked days, ascending
func (c ConstraintSet) BlockedDates() []time.Time { return c.blocked.sorted() }

// WeatherRestrictionDates returns weather-advisory days, ascending
func (c ConstraintSet) WeatherRestrictionDates() []time.Time { return c.weather.sorted() }

// BlockedRules returns the recurring blocked-date rules as given
func (c ConstraintSet) BlockedRules() []string {
	out := make([]string, len(c.blockRules))
	for i, r := range c.blockRules {
		out[i] = r.source
	}
	return out
}

func (c ConstraintSet) isHoliday(date time.Time) bool {
	if c.holidays == nil {
		return false
	}
	return c.holidays.IsHoliday(date, c.jurisdiction)
}

func (c ConstraintSet) isBlocked(date time.Time) bool {
	if c.blocked.contains(date) {
		return true
	}
	for _, r := range c.blockRules {
		if r.matches(date) {
			return true
		}
	}
	return false
}
