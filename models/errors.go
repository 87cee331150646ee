package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad or missing input. No I/O was attempted.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced party or response that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIOFailure marks a store that was unreachable or rejected the operation.
	ErrIOFailure = errors.New("store operation failed")
	// ErrConflict marks a submission that lost an insert race under a uniqueness guard.
	ErrConflict = errors.New("conflicting submission")
)

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
