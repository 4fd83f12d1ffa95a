// Package domain – error taxonomy
//
// This file centralizes the error kinds shared by the repository and service
// layers so that callers (including the HTTP layer) can classify failures
// with errors.Is/errors.As instead of inspecting rendered text. Errors are
// constructed as typed values at the point of failure; the only place that
// looks at driver message text is the duplicate-key translation in the repo
// package, where some SQL drivers leave no alternative.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Services wrap these with fmt.Errorf("...: %w", ...)
// to attach the offending value while keeping errors.Is classification.
var (
	// ErrNotFound indicates the operation targeted an id that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a scoped-uniqueness violation, whether it
	// was caught by a pre-check or translated from a database constraint.
	ErrAlreadyExists = errors.New("already exists")

	// ErrReferenceNotFound indicates a referenced parent/group/type id does
	// not exist.
	ErrReferenceNotFound = errors.New("referenced record does not exist")

	// ErrInUse indicates a delete was rejected because dependent rows still
	// reference the record.
	ErrInUse = errors.New("record is still in use")
)

// ValidationError reports malformed input. It is always produced before any
// mutating statement executes.
type ValidationError struct {
	Msg string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a *ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
