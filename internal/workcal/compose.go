package workcal

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/worksite-calendar/internal/calendar"
)

// RawConstraints are caller inputs; every field is optional.
// Nil pointers and nil slices mean "unset" and take the preset or empty default.
type RawConstraints struct {
	Preset                  string
	ExcludeWeekends         *bool
	ExcludeHolidays         *bool
	Jurisdiction            *string
	BlockedDates            []time.Time
	BlockedRules            []string
	WeatherRestrictionDates []time.Time
	MinDate                 *time.Time
	MaxDate                 *time.Time
	ProjectStartDate        *time.Time
	ProjectEndDate          *time.Time
	CriticalPath            *bool
}

// Compose turns raw inputs into a ConstraintSet. The holiday lookup is bound
// into the set so every evaluation carries its own jurisdiction data; a nil
// lookup means no holidays. The same inputs always produce an equivalent set.
func Compose(raw RawConstraints, holidays calendar.HolidayLookup) (ConstraintSet, error) {
	preset, err := LookupPreset(raw.Preset)
	if err != nil {
		return ConstraintSet{}, err
	}
	if holidays == nil {
		holidays = calendar.NoHolidays
	}

	cs := ConstraintSet{
		preset:          preset,
		excludeWeekends: boolOr(raw.ExcludeWeekends, preset.ExcludeWeekends),
		excludeHolidays: boolOr(raw.ExcludeHolidays, preset.ExcludeHolidays),
		jurisdiction:    preset.Jurisdiction,
		holidays:        holidays,
		blocked:         newDateSet(raw.BlockedDates),
		weather:         newDateSet(raw.WeatherRestrictionDates),
		minDate:         newBound(raw.MinDate),
		maxDate:         newBound(raw.MaxDate),
		projectStart:    newBound(raw.ProjectStartDate),
		projectEnd:      newBound(raw.ProjectEndDate),
		criticalPath:    boolOr(raw.CriticalPath, false),
	}
	if raw.Jurisdiction != nil && strings.TrimSpace(*raw.Jurisdiction) != "" {
		cs.jurisdiction = calendar.NormalizeJurisdiction(*raw.Jurisdiction)
	}

	anchor := ruleAnchor(cs)
	for _, s := range raw.BlockedRules {
		r, err := compileRule(s, anchor)
		if err != nil {
			return ConstraintSet{}, fmt.Errorf("failed to compile blocked rule: %w", err)
		}
		cs.blockRules = append(cs.blockRules, r)
	}

	return cs, nil
}

// ruleAnchor picks the DTSTART for rules that do not carry one:
// project start, then min date, then a fixed Monday.
func ruleAnchor(cs ConstraintSet) time.Time {
	if d, ok := cs.projectStart.get(); ok {
		return d
	}
	if d, ok := cs.minDate.get(); ok {
		return d
	}
	return defaultRuleAnchor
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
