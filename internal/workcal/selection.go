package workcal

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/worksite-calendar/pkg/dateutil"
)

// Mode is the selection mode of a date picker
type Mode int

const (
	ModeSingle Mode = iota
	ModeRange
)

// ParseMode parses "single" or "range"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return ModeSingle, nil
	case "range":
		return ModeRange, nil
	default:
		return ModeSingle, fmt.Errorf("unknown selection mode %q", s)
	}
}

func (m Mode) String() string {
	if m == ModeRange {
		return "range"
	}
	return "single"
}

// StateKind enumerates selection states
type StateKind int

const (
	StateEmpty StateKind = iota
	StateSingleSelected
	StateRangeStart
	StateRangeComplete
)

var stateKindNames = map[StateKind]string{
	StateEmpty:          "empty",
	StateSingleSelected: "single",
	StateRangeStart:     "range-start",
	StateRangeComplete:  "range-complete",
}

func (k StateKind) String() string {
	if name, ok := stateKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// SelectionState is a selection value. Transitions return a new state;
// a state is never modified in place.
//
// From is set for SingleSelected, RangeStart and RangeComplete.
// To is set for RangeComplete only, and From <= To always holds.
type SelectionState struct {
	Kind StateKind
	From time.Time
	To   time.Time
}

// Empty returns the empty selection
func Empty() SelectionState {
	return SelectionState{Kind: StateEmpty}
}

// Single returns a single-date selection
func Single(date time.Time) SelectionState {
	return SelectionState{Kind: StateSingleSelected, From: dateutil.Day(date)}
}

// RangeFrom returns a range with only its start chosen
func RangeFrom(date time.Time) SelectionState {
	return SelectionState{Kind: StateRangeStart, From: dateutil.Day(date)}
}

// Range returns a complete range, swapping the bounds when out of order
func Range(a, b time.Time) SelectionState {
	from, to := dateutil.Day(a), dateutil.Day(b)
	if to.Before(from) {
		from, to = to, from
	}
	return SelectionState{Kind: StateRangeComplete, From: from, To: to}
}

func (s SelectionState) String() string {
	switch s.Kind {
	case StateSingleSelected, StateRangeStart:
		return fmt.Sprintf("%s(%s)", s.Kind, dateutil.Key(s.From))
	case StateRangeComplete:
		return fmt.Sprintf("%s(%s..%s)", s.Kind, dateutil.Key(s.From), dateutil.Key(s.To))
	default:
		return s.Kind.String()
	}
}

// Stats are recomputed on every accepted transition into
// SingleSelected or RangeComplete
type Stats struct {
	IsWorkDay    bool
	Report       *WorkDayReport
	CriticalPath bool
}

// Outcome is the result of a Select call
type Outcome struct {
	State    SelectionState
	Accepted bool
	Stats    *Stats
}

// Selector applies selection transitions under one mode and constraint set
type Selector struct {
	mode        Mode
	constraints ConstraintSet
}

// NewSelector creates a Selector
func NewSelector(mode Mode, cs ConstraintSet) *Selector {
	return &Selector{mode: mode, constraints: cs}
}

// Mode returns the selector's mode
func (s *Selector) Mode() Mode { return s.mode }

// Reset returns the empty state
func (s *Selector) Reset() SelectionState {
	return Empty()
}

// Select applies a user-chosen date to the current state.
// A date that is not a work day is rejected: the state comes back unchanged
// with Accepted false. Rejection is a normal outcome, not an error.
func (s *Selector) Select(state SelectionState, date time.Time) Outcome {
	d := dateutil.Day(date)
	if !IsWorkDay(d, s.constraints) {
		return Outcome{State: state}
	}

	var next SelectionState
	switch {
	case s.mode == ModeSingle:
		next = Single(d)
	case state.Kind == StateRangeStart:
		next = Range(state.From, d)
	default:
		next = RangeFrom(d)
	}

	stats, err := s.Stats(next)
	if err != nil {
		// Range always orders its bounds, so this is unreachable; keep the old state.
		return Outcome{State: state}
	}
	return Outcome{State: next, Accepted: true, Stats: stats}
}

// Stats computes the statistics reported alongside a state.
// Empty and RangeStart states have none.
func (s *Selector) Stats(state SelectionState) (*Stats, error) {
	switch state.Kind {
	case StateSingleSelected:
		return &Stats{IsWorkDay: IsWorkDay(state.From, s.constraints)}, nil
	case StateRangeComplete:
		report, err := WorkDaysInRange(state.From, state.To, s.constraints)
		if err != nil {
			return nil, err
		}
		return &Stats{
			IsWorkDay:    IsWorkDay(state.To, s.constraints),
			Report:       &report,
			CriticalPath: s.constraints.CriticalPath(),
		}, nil
	default:
		return nil, nil
	}
}
