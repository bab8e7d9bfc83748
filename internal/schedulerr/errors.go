// Package schedulerr provides the typed error vocabulary for the scheduling
// core: infeasibility, internal invariant violations, and (deferred to the
// transport collaborator) malformed input.
package schedulerr

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure the scheduling core can report.
type Code string

const (
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// AppError is the error type returned by the scheduling core. It never
// carries an HTTP status: that mapping belongs to the transport layer.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with no underlying cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an AppError carrying the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ErrNoFeasibleSchedule is returned when the solver terminates without a
// usable (optimal or feasible) assignment.
var ErrNoFeasibleSchedule = New(CodeNoFeasibleSolution, "no feasible schedule found")

// NoFeasibleSchedule builds a no-feasible-schedule error carrying a reason.
func NoFeasibleSchedule(reason string) *AppError {
	return New(CodeNoFeasibleSolution, "no feasible schedule found: "+reason)
}

// Internal builds an internal invariant violation error.
func Internal(message string) *AppError {
	return New(CodeInternal, message)
}
