package oerror

import (
	"errors"
	"fmt"
)

// PmoveError is the error type returned by everything outside the per-tick simulation.
type PmoveError struct {
	Err     string
	wrapped error
}

func NewPmoveError(err string) *PmoveError {
	return &PmoveError{Err: err}
}

// New formats a PmoveError. A %w verb in the format keeps the wrapped error reachable
// through errors.Is and errors.As.
func New(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &PmoveError{Err: "pmove: " + err.Error(), wrapped: errors.Unwrap(err)}
}

func (e *PmoveError) Error() string {
	return e.Err
}

func (e *PmoveError) Unwrap() error {
	return e.wrapped
}
