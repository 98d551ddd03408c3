package workcal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// defaultRuleAnchor anchors rules that carry no DTSTART and have no project
// or min bound to anchor to. It is a Monday so weekly intervals line up with ISO weeks.
var defaultRuleAnchor = dateutil.Date(2000, time.January, 3)

var everyNWeeks = regexp.MustCompile(`^every (\d+) weeks?(?: on (\w+))?$`)

var ruleWeekdays = map[string]rrule.Weekday{
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
	"sunday":    rrule.SU,
}

// blockRule is a compiled recurring blocked-date rule
type blockRule struct {
	source string
	rule   *rrule.RRule
	years  *occurrenceCache
}

// matches reports whether the rule has an occurrence on the date's day
func (b blockRule) matches(date time.Time) bool {
	d := dateutil.Day(date)
	_, ok := b.years.year(b.rule, d.Year())[dateutil.Key(d)]
	return ok
}

// occurrenceCache holds a rule's occurrence days, expanded one year at a time.
// rrule walks from DTSTART on every query, so each year is expanded once.
type occurrenceCache struct {
	mu    sync.Mutex
	years map[int]map[string]struct{}
}

func newOccurrenceCache() *occurrenceCache {
	return &occurrenceCache{years: make(map[int]map[string]struct{})}
}

func (c *occurrenceCache) year(r *rrule.RRule, year int) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if days, ok := c.years[year]; ok {
		return days
	}

	from := dateutil.Date(year, time.January, 1)
	to := dateutil.Date(year+1, time.January, 1).Add(-time.Nanosecond)
	days := make(map[string]struct{})
	for _, t := range r.Between(from, to, true) {
		days[dateutil.Key(dateutil.Day(t))] = struct{}{}
	}
	c.years[year] = days
	return days
}

// compileRule parses a natural phrase or raw RRULE and anchors it.
// Supported phrases: "daily", "weekdays", "weekends", "every <weekday>",
// "every N weeks [on <weekday>]"; anything containing FREQ= is passed to rrule.
func compileRule(s string, anchor time.Time) (blockRule, error) {
	opts, err := parseRuleOptions(s)
	if err != nil {
		return blockRule{}, err
	}

	if opts.Dtstart.IsZero() {
		opts.Dtstart = dateutil.Day(anchor)
	} else {
		opts.Dtstart = dateutil.Day(opts.Dtstart)
	}
	if !opts.Until.IsZero() {
		opts.Until = dateutil.EndOfDay(dateutil.Day(opts.Until))
	}

	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return blockRule{}, fmt.Errorf("invalid recurrence %q: %w", s, err)
	}
	return blockRule{source: s, rule: r, years: newOccurrenceCache()}, nil
}

func parseRuleOptions(s string) (*rrule.ROption, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if strings.Contains(s, "freq=") {
		raw := strings.TrimPrefix(strings.ToUpper(s), "RRULE:")
		opts, err := rrule.StrToROption(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE %q: %w", raw, err)
		}
		return opts, nil
	}

	switch s {
	case "daily", "every day":
		return &rrule.ROption{Freq: rrule.DAILY}, nil
	case "weekdays", "every weekday":
		return &rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		}, nil
	case "weekends", "every weekend":
		return &rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.SA, rrule.SU},
		}, nil
	}

	if m := everyNWeeks.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid interval in %q: %w", s, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("invalid interval in %q", s)
		}
		opts := &rrule.ROption{Freq: rrule.WEEKLY, Interval: n}
		if m[2] != "" {
			wd, ok := ruleWeekdays[m[2]]
			if !ok {
				return nil, fmt.Errorf("unknown weekday %q", m[2])
			}
			opts.Byweekday = []rrule.Weekday{wd}
		}
		return opts, nil
	}

	if day, ok := strings.CutPrefix(s, "every "); ok {
		if wd, ok := ruleWeekdays[day]; ok {
			return &rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{wd}}, nil
		}
	}

	return nil, fmt.Errorf("unrecognized recurrence %q", s)
}
