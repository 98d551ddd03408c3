package workcal

import "errors"

var (
	// ErrInvalidRange is returned when a range starts after it ends
	ErrInvalidRange = errors.New("invalid range: start is after end")
	// ErrUnbounded is returned when no work day exists within MaxSearchDays
	ErrUnbounded = errors.New("no work day within search limit")
	// ErrUnknownPreset is returned for a preset name that has no default table
	ErrUnknownPreset = errors.New("unknown preset")
)
