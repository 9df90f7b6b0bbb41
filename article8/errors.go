/*
errors.go - Centralized error types for the detection engine

PURPOSE:
  All error types in one place. The taxonomy is deliberately small:
  malformed ROW data never raises (moves.go and rings fall back to safe
  defaults so no record is ever dropped), while caller contract violations
  (a missing column, an unparseable date in pushed-in state) surface as
  hard failures.

USAGE:
  Callers match with errors.Is/errors.As:

    if errors.Is(err, article8.ErrMissingColumn) { ... }
*/
package article8

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingColumn is returned when the input table omits a required
	// column entirely. This is a caller contract violation, not a data
	// problem, and is never recovered locally.
	ErrMissingColumn = errors.New("required column missing")

	// ErrNoData is returned when a detection pass is asked to run over an
	// empty window. Distinguished from "data present but all defaults",
	// which is silent-degradation-prone and stays the host's concern.
	ErrNoData = errors.New("no clock-ring data in range")

	// ErrCancelled is returned when a detection pass is cancelled between
	// detectors. Prior results are left untouched.
	ErrCancelled = errors.New("detection cancelled")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// MissingColumnError names the offending column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column missing: %q", e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// BadDateError reports an unparseable date in host-supplied state.
type BadDateError struct {
	Raw string
	Err error
}

func (e *BadDateError) Error() string {
	return fmt.Sprintf("bad date %q: %v", e.Raw, e.Err)
}

func (e *BadDateError) Unwrap() error { return e.Err }
