package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record doesn't exist.
	ErrNotFound = errors.New("shelf: record not found")

	// ErrNoFieldsToUpdate is returned when an update carries no fields.
	ErrNoFieldsToUpdate = errors.New("shelf: no fields to update")

	// ErrReservedField is returned when an update targets a key, type or timestamp attribute.
	ErrReservedField = errors.New("shelf: field cannot be updated")

	// ErrUnknownType is returned when a record's type has no registered schema.
	ErrUnknownType = errors.New("shelf: unknown record type")

	// ErrInvalidKey is returned when a key does not match its schema's layout.
	ErrInvalidKey = errors.New("shelf: key does not match schema")

	// ErrInvalidQuery is returned when a condition chain matches no index.
	ErrInvalidQuery = errors.New("shelf: invalid query")

	// ErrInvalidToken is returned when a continuation token cannot be decoded.
	ErrInvalidToken = errors.New("shelf: invalid continuation token")

	// ErrTableExists is returned by CreateTable when the table is already present.
	ErrTableExists = errors.New("shelf: table already exists")

	// ErrTableNotFound is returned by DestroyTable when there is no table to remove.
	ErrTableNotFound = errors.New("shelf: table not found")
)

// NotFoundError carries the key that could not be found.
type NotFoundError struct {
	Key Key
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shelf: record not found: %s/%s", e.Key.ResourceID, e.Key.SubResourceID)
}

// Is reports ErrNotFound equivalence.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReservedFieldError names the offending attribute.
type ReservedFieldError struct {
	Name string
}

// Error implements error.
func (e *ReservedFieldError) Error() string {
	return fmt.Sprintf("shelf: field cannot be updated: %q", e.Name)
}

// Is reports whether target is ErrReservedField.
func (e *ReservedFieldError) Is(target error) bool {
	return target == ErrReservedField
}
