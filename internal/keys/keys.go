// Package keys provides composite key encoding for the single-table layout.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
)

// Delimiter separates the entity type tag from the local identifier.
const Delimiter = "#"

// ErrMalformed is returned when a composite key cannot be split.
var ErrMalformed = errors.New("shelf: malformed composite key")

// Compose joins an entity type tag and a local identifier, e.g. "Book#2XA...".
func Compose(entityType, id string) string {
	return entityType + Delimiter + id
}

// Split is the inverse of Compose.
// "Book#abc123" yields ("Book", "abc123").
func Split(composite string) (entityType, id string, err error) {
	parts := strings.Split(composite, Delimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformed, composite)
	}
	return parts[0], parts[1], nil
}

// NewID returns a new sortable unique identifier (27 base62 characters).
func NewID() string {
	return ksuid.New().String()
}

// IsID reports whether s is a well-formed sortable unique identifier.
func IsID(s string) bool {
	_, err := ksuid.Parse(s)
	return err == nil
}
