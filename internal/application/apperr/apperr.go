// Package apperr classifies application failures so adapters can map them
// to responses without inspecting storage or domain details.
package apperr

import (
	"errors"
	"fmt"

	"runclub/internal/adapters/storage"
)

// ErrNotFound marks a lookup of an entity that does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is input the caller can fix. Its message is safe to show.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError is a persistence failure. Its message is logged, not shown.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Invalid wraps err as a ValidationError. Nil stays nil.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return err
	}
	return &ValidationError{Err: err}
}

// Invalidf formats a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

// Store classifies an error returned by a store call made for op.
// Missing rows become ErrNotFound; everything else is a StoreError.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return err
	}
	var s *StoreError
	if errors.As(err, &s) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
