package workcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkDaysInRange_FullWeek(t *testing.T) {
	cs := mustCompose(t, RawConstraints{ExcludeWeekends: ptr(true), ExcludeHolidays: ptr(false)}, usHolidays)

	report, err := WorkDaysInRange(day(2025, time.March, 3), day(2025, time.March, 9), cs)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Count)
	assert.Equal(t, []time.Time{
		day(2025, time.March, 3),
		day(2025, time.March, 4),
		day(2025, time.March, 5),
		day(2025, time.March, 6),
		day(2025, time.March, 7),
	}, report.Dates)
}

func TestWorkDaysInRange(t *testing.T) {
	standard := mustCompose(t, RawConstraints{}, usHolidays)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single work day", day(2025, time.March, 4), day(2025, time.March, 4), 1},
		{"single weekend day", day(2025, time.March, 8), day(2025, time.March, 8), 0},
		{"week with holiday", day(2025, time.June, 30), day(2025, time.July, 6), 4},
		{"month", day(2025, time.March, 1), day(2025, time.March, 31), 21},
		{"times of day ignored", time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC), time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := WorkDaysInRange(tt.start, tt.end, standard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Count)
			assert.Len(t, report.Dates, report.Count)
		})
	}
}

func TestWorkDaysInRange_EmptyIsNotNil(t *testing.T) {
	cs := mustCompose(t, RawConstraints{}, nil)

	report, err := WorkDaysInRange(day(2025, time.March, 8), day(2025, time.March, 9), cs)
	require.NoError(t, err)
	assert.NotNil(t, report.Dates)
	assert.Zero(t, report.Count)
}

func TestWorkDaysInRange_InvalidRange(t *testing.T) {
	cs := mustCompose(t, RawConstraints{}, nil)

	_, err := WorkDaysInRange(day(2025, time.March, 10), day(2025, time.March, 5), cs)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNextAndPreviousWorkDay(t *testing.T) {
	cs := mustCompose(t, RawConstraints{}, usHolidays)

	tests := []struct {
		name     string
		date     time.Time
		wantNext time.Time
		wantPrev time.Time
	}{
		{"midweek", day(2025, time.March, 5), day(2025, time.March, 6), day(2025, time.March, 4)},
		{"friday", day(2025, time.March, 7), day(2025, time.March, 10), day(2025, time.March, 6)},
		{"saturday", day(2025, time.March, 8), day(2025, time.March, 10), day(2025, time.March, 7)},
		{"before holiday weekend", day(2025, time.July, 3), day(2025, time.July, 7), day(2025, time.July, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := NextWorkDay(tt.date, cs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, next)

			prev, err := PreviousWorkDay(tt.date, cs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrev, prev)
		})
	}
}

func TestNextWorkDay_Unbounded(t *testing.T) {
	cs := mustCompose(t, RawConstraints{MaxDate: ptr(day(2025, time.January, 1))}, nil)

	_, err := NextWorkDay(day(2025, time.June, 1), cs)
	assert.ErrorIs(t, err, ErrUnbounded)

	prev, err := PreviousWorkDay(day(2025, time.June, 1), cs)
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.January, 1), prev)
}

func TestPreviousWorkDay_Unbounded(t *testing.T) {
	cs := mustCompose(t, RawConstraints{MinDate: ptr(day(2025, time.June, 2))}, nil)

	_, err := PreviousWorkDay(day(2025, time.June, 2), cs)
	assert.ErrorIs(t, err, ErrUnbounded)

	_, err = AddWorkDays(day(2025, time.June, 3), -2, cs)
	assert.ErrorIs(t, err, ErrUnbounded)
}

func TestNextWorkDay_DailyRuleStaysFast(t *testing.T) {
	cs := mustCompose(t, RawConstraints{
		Preset:       "emergency",
		BlockedRules: []string{"daily"},
	}, nil)

	start := time.Now()
	_, err := NextWorkDay(day(2026, time.October, 18), cs)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrUnbounded)
	assert.Less(t, elapsed, 2*time.Second, "search over %d days took %s", MaxSearchDays, elapsed)

	report, err := WorkDaysInRange(day(2030, time.January, 1), day(2030, time.December, 31), cs)
	require.NoError(t, err)
	assert.Zero(t, report.Count)
}

func TestBlockedRule_MatchesAcrossYearBoundary(t *testing.T) {
	cs := mustCompose(t, RawConstraints{
		Preset:       "emergency",
		BlockedRules: []string{"every wednesday"},
	}, nil)

	report, err := WorkDaysInRange(day(2025, time.December, 29), day(2026, time.January, 4), cs)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Count)
	assert.NotContains(t, report.Dates, day(2025, time.December, 31))

	// the same day is answered from the expanded year on repeat checks
	assert.False(t, IsWorkDay(day(2025, time.December, 31), cs))
	assert.True(t, IsWorkDay(day(2026, time.January, 1), cs))
}

func TestAddWorkDays(t *testing.T) {
	cs := mustCompose(t, RawConstraints{}, usHolidays)

	tests := []struct {
		name string
		date time.Time
		n    int
		want time.Time
	}{
		{"zero keeps date", day(2025, time.March, 8), 0, day(2025, time.March, 8)},
		{"one over weekend", day(2025, time.March, 7), 1, day(2025, time.March, 10)},
		{"a week", day(2025, time.March, 7), 5, day(2025, time.March, 14)},
		{"backwards", day(2025, time.March, 10), -1, day(2025, time.March, 7)},
		{"skips holiday", day(2025, time.July, 3), 1, day(2025, time.July, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddWorkDays(tt.date, tt.n, cs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeMonth(t *testing.T) {
	cs := mustCompose(t, RawConstraints{
		BlockedDates:            []time.Time{day(2025, time.July, 15), day(2025, time.July, 19)},
		WeatherRestrictionDates: []time.Time{day(2025, time.July, 22)},
	}, usHolidays)

	summary := SummarizeMonth(2025, time.July, cs)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, time.July, summary.Month)
	assert.Len(t, summary.Days, 31)
	assert.Equal(t, 21, summary.WorkDays)
	assert.Equal(t, 1, summary.Holidays)
	assert.Equal(t, 2, summary.Blocked, "a blocked saturday counts as blocked, not weekend")
	assert.Equal(t, 7, summary.Weekends)
	assert.Equal(t, 0, summary.OutOfBounds)
	assert.Equal(t, 1, summary.WeatherAdvisory)
	assert.Equal(t, 31, summary.WorkDays+summary.Holidays+summary.Blocked+summary.Weekends+summary.OutOfBounds)
}

func TestSummarizeMonth_OutOfBounds(t *testing.T) {
	cs := mustCompose(t, RawConstraints{
		ProjectStartDate: ptr(day(2025, time.February, 10)),
		ProjectEndDate:   ptr(day(2025, time.February, 14)),
	}, nil)

	summary := SummarizeMonth(2025, time.February, cs)

	assert.Len(t, summary.Days, 28)
	assert.Equal(t, 5, summary.WorkDays)
	assert.Equal(t, 23, summary.OutOfBounds)
	assert.Zero(t, summary.Weekends)
}
