package workcal

import (
	"strings"
	"time"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// Reason is a bit set of the conditions that exclude a date
type Reason uint8

const (
	ReasonWeekend Reason = 1 << iota
	ReasonHoliday
	ReasonBlocked
	ReasonBeforeMin
	ReasonAfterMax
	ReasonOutsideProject
)

var reasonNames = []struct {
	r    Reason
	name string
}{
	{ReasonWeekend, "weekend"},
	{ReasonHoliday, "holiday"},
	{ReasonBlocked, "blocked"},
	{ReasonBeforeMin, "before-min"},
	{ReasonAfterMax, "after-max"},
	{ReasonOutsideProject, "outside-project"},
}

// Has reports whether r includes other
func (r Reason) Has(other Reason) bool {
	return r&other != 0
}

// String joins reason names with "," ("" when empty)
func (r Reason) String() string {
	var names []string
	for _, rn := range reasonNames {
		if r.Has(rn.r) {
			names = append(names, rn.name)
		}
	}
	return strings.Join(names, ",")
}

// DayStatus is everything the engine knows about one date.
// Weekend, Holiday, Blocked and WeatherAdvisory are raw facts for display;
// Reasons holds only the facts that exclude the date under the set's flags.
type DayStatus struct {
	Date            time.Time
	Weekend         bool
	Holiday         bool
	Blocked         bool
	WeatherAdvisory bool
	Reasons         Reason
}

// WorkDay reports whether no condition excludes the date
func (s DayStatus) WorkDay() bool {
	return s.Reasons == 0
}

// Classify evaluates every condition for the date
func Classify(date time.Time, cs ConstraintSet) DayStatus {
	d := dateutil.Day(date)
	status := DayStatus{
		Date:            d,
		Weekend:         dateutil.IsWeekend(d),
		Holiday:         cs.isHoliday(d),
		Blocked:         cs.isBlocked(d),
		WeatherAdvisory: cs.weather.contains(d),
	}

	if cs.excludeWeekends && status.Weekend {
		status.Reasons |= ReasonWeekend
	}
	if cs.excludeHolidays && status.Holiday {
		status.Reasons |= ReasonHoliday
	}
	if status.Blocked {
		status.Reasons |= ReasonBlocked
	}
	if minDate, ok := cs.minDate.get(); ok && d.Before(minDate) {
		status.Reasons |= ReasonBeforeMin
	}
	if maxDate, ok := cs.maxDate.get(); ok && d.After(maxDate) {
		status.Reasons |= ReasonAfterMax
	}
	start, hasStart := cs.projectStart.get()
	end, hasEnd := cs.projectEnd.get()
	if hasStart && hasEnd && !dateutil.InRange(d, start, end) {
		status.Reasons |= ReasonOutsideProject
	}

	return status
}

// IsWorkDay reports whether the date is usable for scheduled work.
// Weather advisories never exclude a date; see IsAdvisoryRestricted.
func IsWorkDay(date time.Time, cs ConstraintSet) bool {
	d := dateutil.Day(date)

	if cs.excludeWeekends && dateutil.IsWeekend(d) {
		return false
	}
	if cs.excludeHolidays && cs.isHoliday(d) {
		return false
	}
	if cs.isBlocked(d) {
		return false
	}
	if minDate, ok := cs.minDate.get(); ok && d.Before(minDate) {
		return false
	}
	if maxDate, ok := cs.maxDate.get(); ok && d.After(maxDate) {
		return false
	}
	start, hasStart := cs.projectStart.get()
	end, hasEnd := cs.projectEnd.get()
	if hasStart && hasEnd && !dateutil.InRange(d, start, end) {
		return false
	}
	return true
}

// IsAdvisoryRestricted reports whether the date is flagged as weather-risky.
// Advisory only: it does not affect IsWorkDay or selection.
func IsAdvisoryRestricted(date time.Time, cs ConstraintSet) bool {
	return cs.weather.contains(date)
}
