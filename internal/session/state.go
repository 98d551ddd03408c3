// Package session persists the interactive selection between CLI invocations.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/username/worksite-calendar/internal/workcal"
	"github.com/username/worksite-calendar/pkg/dateutil"
)

// fileState is the on-disk form of a selection
type fileState struct {
	Mode      string `json:"mode"`
	Kind      string `json:"kind"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

var kindsByName = map[string]workcal.StateKind{
	workcal.StateEmpty.String():          workcal.StateEmpty,
	workcal.StateSingleSelected.String(): workcal.StateSingleSelected,
	workcal.StateRangeStart.String():     workcal.StateRangeStart,
	workcal.StateRangeComplete.String():  workcal.StateRangeComplete,
}

// Store manages the selection state file
type Store struct {
	stateFile string
	mode      workcal.Mode
	state     workcal.SelectionState
	logger    *zap.Logger
	now       func() time.Time
}

// NewStore creates a store for the given file and selection mode
func NewStore(stateFile string, mode workcal.Mode, logger *zap.Logger) *Store {
	return &Store{
		stateFile: stateFile,
		mode:      mode,
		state:     workcal.Empty(),
		logger:    logger,
		now:       time.Now,
	}
}

// Load reads the state file. A missing file, or one written under another
// mode, yields the empty selection.
func (s *Store) Load() error {
	s.state = workcal.Empty()

	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	if fs.Mode != s.mode.String() {
		s.logger.Info("Selection mode changed, starting over",
			zap.String("stored_mode", fs.Mode),
			zap.String("mode", s.mode.String()))
		return nil
	}

	state, err := decodeState(fs)
	if err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	s.state = state
	s.logger.Debug("Selection state loaded", zap.String("state", state.String()))
	return nil
}

// Save writes the current state to the file
func (s *Store) Save() error {
	fs := fileState{
		Mode:      s.mode.String(),
		Kind:      s.state.Kind.String(),
		UpdatedAt: s.now().Format(time.RFC3339),
	}
	if !s.state.From.IsZero() {
		fs.From = dateutil.Key(s.state.From)
	}
	if !s.state.To.IsZero() {
		fs.To = dateutil.Key(s.state.To)
	}

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Debug("Selection state saved", zap.String("state", s.state.String()))
	return nil
}

// State returns the current selection
func (s *Store) State() workcal.SelectionState {
	return s.state
}

// Set replaces the current selection; call Save to persist it
func (s *Store) Set(state workcal.SelectionState) {
	s.state = state
}

// Reset clears the selection and removes the state file
func (s *Store) Reset() error {
	s.state = workcal.Empty()
	if err := os.Remove(s.stateFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	s.logger.Info("Selection reset", zap.String("file", s.stateFile))
	return nil
}

func decodeState(fs fileState) (workcal.SelectionState, error) {
	kind, ok := kindsByName[fs.Kind]
	if !ok {
		return workcal.Empty(), fmt.Errorf("unknown selection kind %q", fs.Kind)
	}
	if kind == workcal.StateEmpty {
		return workcal.Empty(), nil
	}

	from, err := dateutil.ParseDate(fs.From)
	if err != nil {
		return workcal.Empty(), err
	}

	switch kind {
	case workcal.StateSingleSelected:
		return workcal.Single(from), nil
	case workcal.StateRangeStart:
		return workcal.RangeFrom(from), nil
	default:
		to, err := dateutil.ParseDate(fs.To)
		if err != nil {
			return workcal.Empty(), err
		}
		return workcal.Range(from, to), nil
	}
}
