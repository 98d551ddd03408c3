package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/worksite-calendar/internal/calendar"
	"github.com/username/worksite-calendar/internal/config"
	"github.com/username/worksite-calendar/internal/workcal"
	"github.com/username/worksite-calendar/pkg/dateutil"
)

// holidaySet is the resolved holiday data for one run: built-in calendars
// plus any jurisdictions served from a file or remote source.
type holidaySet struct {
	builtin *calendar.Builtin
	table   *calendar.Table
	routed  map[string]bool
	lookup  calendar.HolidayLookup
}

// covers reports whether any holiday data exists for the jurisdiction
func (h *holidaySet) covers(jurisdiction string) bool {
	j := calendar.NormalizeJurisdiction(jurisdiction)
	return h.routed[j] || h.builtin.Supports(j)
}

// list returns the holidays of the jurisdiction in the year
func (h *holidaySet) list(jurisdiction string, year int) ([]calendar.Holiday, error) {
	j := calendar.NormalizeJurisdiction(jurisdiction)
	from, to := dateutil.Date(year, time.January, 1), dateutil.Date(year, time.December, 31)

	if h.routed[j] {
		return h.table.Holidays(j, from, to), nil
	}
	if !h.builtin.Supports(j) {
		return nil, fmt.Errorf("no holiday data for jurisdiction %q (built-in: %s)", j, strings.Join(h.builtin.Jurisdictions(), ", "))
	}
	return h.builtin.Table(j, year).Holidays(j, from, to), nil
}

// buildHolidays resolves holiday data for the years the command touches.
// Remote sources are fetched here, before any work-day evaluation.
func buildHolidays(ctx context.Context, cfg *config.Config, jurisdiction string, years []int) (*holidaySet, error) {
	h := &holidaySet{
		builtin: calendar.NewBuiltin(),
		table:   calendar.NewTable(),
		routed:  make(map[string]bool),
	}
	router := calendar.NewRouter(h.builtin)

	jurisdictions := cfg.Holidays.Jurisdictions
	if len(jurisdictions) == 0 {
		jurisdictions = []string{jurisdiction}
	}

	source := cfg.Holidays.Source
	if source == "" {
		source = config.SourceBuiltin
	}

	var remote calendar.Source
	switch source {
	case config.SourceBuiltin:
		h.lookup = router
		return h, nil

	case config.SourceFile:
		table, err := calendar.NewFileCalendar(cfg.Holidays.File, logger).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		h.table = table
		if len(cfg.Holidays.Jurisdictions) == 0 {
			jurisdictions = table.Jurisdictions()
		}

	case config.SourceIsDayOff:
		logger.Info("Using isdayoff.ru calendar API")
		c := calendar.NewIsDayOffCalendar(cfg.Holidays.FallbackURL, cfg.Holidays.GetTimeout(), logger)
		if cfg.Holidays.BaseURL != "" {
			c = c.WithBaseURL(cfg.Holidays.BaseURL)
		}
		remote = c

	case config.SourceProductionCalendar:
		logger.Info("Using production-calendar.ru API")
		remote = calendar.NewProductionCalendar(cfg.Holidays.APIURL, cfg.Holidays.APIToken, cfg.Holidays.GetTimeout(), logger)

	default:
		return nil, fmt.Errorf("unknown holiday source: %s", source)
	}

	if remote != nil {
		if cfg.Holidays.File != "" {
			remote = calendar.NewCompositeCalendar(remote, calendar.NewFileCalendar(cfg.Holidays.File, logger), logger)
		}
		resolver := calendar.NewResolver(remote, cfg.Holidays.Retries, cfg.Holidays.GetCacheTTL(), logger)
		for _, j := range jurisdictions {
			table, err := resolver.Resolve(ctx, j, years...)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve holidays for %s: %w", j, err)
			}
			h.table = h.table.Merge(table)
		}
	}

	for _, j := range jurisdictions {
		nj := calendar.NormalizeJurisdiction(j)
		h.routed[nj] = true
		router = router.Route(nj, h.table)
	}
	h.lookup = router

	logger.Debug("Holiday data ready",
		zap.String("source", source),
		zap.Strings("jurisdictions", jurisdictions),
		zap.Int("holidays", h.table.Len()))

	return h, nil
}

// engine bundles the composed constraint set with the holiday data behind it
type engine struct {
	constraints workcal.ConstraintSet
	holidays    *holidaySet
}

// loadEngine composes constraints from config and flags. dates are the days the
// command is about; holiday data is resolved for their years and the years around them.
func loadEngine(ctx context.Context, dates ...time.Time) (*engine, error) {
	raw, err := cfg.Calendar.Raw()
	if err != nil {
		return nil, err
	}
	if presetFlag != "" {
		raw.Preset = presetFlag
	}
	if jurisdiction != "" {
		j := jurisdiction
		raw.Jurisdiction = &j
	}

	j, err := effectiveJurisdiction(raw)
	if err != nil {
		return nil, err
	}

	holidays, err := buildHolidays(ctx, cfg, j, yearsAround(dates))
	if err != nil {
		return nil, err
	}

	cs, err := workcal.Compose(raw, holidays.lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to compose constraints: %w", err)
	}

	if cs.ExcludeHolidays() && !holidays.covers(cs.Jurisdiction()) {
		logger.Warn("No holiday data for jurisdiction, holidays will not be excluded",
			zap.String("jurisdiction", cs.Jurisdiction()),
			zap.Strings("builtin", holidays.builtin.Jurisdictions()))
	}

	logger.Debug("Constraints composed",
		zap.String("preset", cs.Preset().String()),
		zap.String("jurisdiction", cs.Jurisdiction()),
		zap.Bool("exclude_weekends", cs.ExcludeWeekends()),
		zap.Bool("exclude_holidays", cs.ExcludeHolidays()))

	return &engine{constraints: cs, holidays: holidays}, nil
}

func effectiveJurisdiction(raw workcal.RawConstraints) (string, error) {
	preset, err := workcal.LookupPreset(raw.Preset)
	if err != nil {
		return "", err
	}
	if raw.Jurisdiction != nil && strings.TrimSpace(*raw.Jurisdiction) != "" {
		return calendar.NormalizeJurisdiction(*raw.Jurisdiction), nil
	}
	return preset.Jurisdiction, nil
}

// yearsAround returns each date's year with its neighbours, so searches that
// cross a year boundary still see holidays
func yearsAround(dates []time.Time) []int {
	if len(dates) == 0 {
		dates = []time.Time{dateutil.Today()}
	}
	seen := make(map[int]bool)
	var years []int
	for _, d := range dates {
		for y := d.Year() - 1; y <= d.Year()+1; y++ {
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)
	return years
}

// parseDateArg accepts "today" or any date format dateutil understands
func parseDateArg(s string) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return dateutil.Today(), nil
	}
	d, err := dateutil.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	return d, nil
}
