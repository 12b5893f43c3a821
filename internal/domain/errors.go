package domain

import (
	"errors"
	"fmt"
)

// DefaultKeyPrefix namespaces every key strdex writes to a shared store.
const DefaultKeyPrefix = "strdex:"

var (
	// ErrNotFound signals a missing string record.
	ErrNotFound = errors.New("string not found")
	// ErrAlreadyExists signals a duplicate string value.
	ErrAlreadyExists = errors.New("string already exists")
	// ErrValidation signals a missing, empty or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnparseableQuery signals a natural-language query no rule understood.
	ErrUnparseableQuery = errors.New("unable to parse natural language query")
	// ErrConflictingFilters signals filters that can never match together.
	ErrConflictingFilters = errors.New("conflicting filters")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
