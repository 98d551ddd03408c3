package workcal

import (
	"fmt"
	"time"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// MaxSearchDays caps NextWorkDay / PreviousWorkDay
const MaxSearchDays = 3650

// WorkDayReport lists the work days of an interval in ascending order
type WorkDayReport struct {
	Dates []time.Time
	Count int
}

// WorkDaysInRange collects the work days in [start, end].
// The caller orders the bounds; start after end is ErrInvalidRange.
func WorkDaysInRange(start, end time.Time, cs ConstraintSet) (WorkDayReport, error) {
	from, to := dateutil.Day(start), dateutil.Day(end)
	if from.After(to) {
		return WorkDayReport{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, dateutil.Key(from), dateutil.Key(to))
	}

	dates := []time.Time{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkDay(d, cs) {
			dates = append(dates, d)
		}
	}
	return WorkDayReport{Dates: dates, Count: len(dates)}, nil
}

// NextWorkDay returns the first work day strictly after date
func NextWorkDay(date time.Time, cs ConstraintSet) (time.Time, error) {
	return step(date, 1, cs)
}

// PreviousWorkDay returns the last work day strictly before date
func PreviousWorkDay(date time.Time, cs ConstraintSet) (time.Time, error) {
	return step(date, -1, cs)
}

func step(date time.Time, dir int, cs ConstraintSet) (time.Time, error) {
	d := dateutil.Day(date)
	for i := 1; i <= MaxSearchDays; i++ {
		d = d.AddDate(0, 0, dir)
		if IsWorkDay(d, cs) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %d days from %s", ErrUnbounded, MaxSearchDays, dateutil.Key(dateutil.Day(date)))
}

// AddWorkDays moves n work days forward (n > 0) or backward (n < 0).
// n == 0 returns the date itself, normalized, whether or not it is a work day.
func AddWorkDays(date time.Time, n int, cs ConstraintSet) (time.Time, error) {
	d := dateutil.Day(date)
	next := NextWorkDay
	if n < 0 {
		next = PreviousWorkDay
		n = -n
	}
	for i := 0; i < n; i++ {
		var err error
		d, err = next(d, cs)
		if err != nil {
			return time.Time{}, err
		}
	}
	return d, nil
}

// MonthSummary counts how the days of a month classify
type MonthSummary struct {
	Year            int
	Month           time.Month
	WorkDays        int
	Weekends        int
	Holidays        int
	Blocked         int
	OutOfBounds     int
	WeatherAdvisory int
	Days            []DayStatus
}

// SummarizeMonth classifies every day of the month. Each excluded day is counted
// once, by its strongest reason: out of bounds, then blocked, holiday, weekend.
// Weather advisories are counted independently.
func SummarizeMonth(year int, month time.Month, cs ConstraintSet) MonthSummary {
	summary := MonthSummary{Year: year, Month: month}

	first := dateutil.StartOfMonth(year, month)
	last := dateutil.EndOfMonth(year, month)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		status := Classify(d, cs)
		summary.Days = append(summary.Days, status)

		if status.WeatherAdvisory {
			summary.WeatherAdvisory++
		}

		switch r := status.Reasons; {
		case r == 0:
			summary.WorkDays++
		case r.Has(ReasonBeforeMin | ReasonAfterMax | ReasonOutsideProject):
			summary.OutOfBounds++
		case r.Has(ReasonBlocked):
			summary.Blocked++
		case r.Has(ReasonHoliday):
			summary.Holidays++
		default:
			summary.Weekends++
		}
	}

	return summary
}
