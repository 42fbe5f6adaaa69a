package library

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a model fails validation.
	ErrValidation = errors.New("shelf: validation failed")

	// ErrArgument is returned when an operation receives an unusable argument.
	ErrArgument = errors.New("shelf: invalid argument")

	// ErrConflict is returned when an operation conflicts with the current state.
	ErrConflict = errors.New("shelf: conflicting state")
)

// ValidationError describes the first invalid field of a model.
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s validation failed for field %q: %s", e.Entity, e.Field, e.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ArgumentError reports a missing or unusable operation argument.
type ArgumentError struct {
	Message string
}

// NewArgumentError formats an ArgumentError.
func NewArgumentError(format string, args ...any) error {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *ArgumentError) Error() string {
	return e.Message
}

// Is reports whether target is ErrArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}

// ConflictError is an ArgumentError caused by the state of another record,
// such as borrowing a book that is already borrowed.
type ConflictError struct {
	Message string
}

// Error implements error.
func (e *ConflictError) Error() string {
	return e.Message
}

// Is matches both ErrConflict and ErrArgument.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || target == ErrArgument
}
