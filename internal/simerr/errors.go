// Package simerr defines the error taxonomy shared by the reservoir packages.
//
// Three kinds of failure are distinguished:
//
//   - [ValidationError]: inconsistent dimensions or physical inputs, raised
//     at construction or validation time and never during assembly
//   - [ParseError]: malformed input files, raised by the deck readers
//   - [ConvergenceError]: a linear solve that did not converge, fatal to a run
//
// Each typed error unwraps to a sentinel so callers can use [errors.Is].
package simerr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks dimensional or physical input inconsistencies.
	ErrValidation = errors.New("ressim: validation failed")

	// ErrParse marks malformed upstream file content.
	ErrParse = errors.New("ressim: parse failed")

	// ErrDiverged indicates the linear solver reported non-convergence.
	ErrDiverged = errors.New("ressim: linear solve did not converge")

	// ErrCanceled indicates the run was stopped between timesteps.
	ErrCanceled = errors.New("ressim: simulation canceled by context")
)

// ValidationError names the offending field and, for size mismatches, both sizes.
type ValidationError struct {
	Field  string
	Got    int
	Want   int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation: %s has %d entries, want %d", e.Field, e.Got, e.Want)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SizeMismatch builds a ValidationError for an array of the wrong length.
func SizeMismatch(field string, got, want int) error {
	return &ValidationError{Field: field, Got: got, Want: want}
}

// Invalid builds a ValidationError with a free-form reason.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseError reports malformed content at a location in an input file.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ConvergenceError carries the failing timestep and the last converged
// pressure field. Pressure is never a partial solution.
type ConvergenceError struct {
	Step       int
	Time       float64
	Info       int
	Iterations int
	Residual   float64
	Pressure   []float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("step %d (t=%.4gs): conjugate gradient status %d after %d iterations (residual %.3e)",
		e.Step, e.Time, e.Info, e.Iterations, e.Residual)
}

func (e *ConvergenceError) Unwrap() error { return ErrDiverged }
