package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Pagination controls one page of a query.
type Pagination struct {
	// Limit is the page size. Zero means the configured default.
	Limit int32

	// Descending reverses the sort key order.
	Descending bool

	// Next is the continuation token returned with the previous page.
	Next string
}

// Page is one page of query results.
type Page struct {
	Records []Record

	// Next is empty on the last page.
	Next string
}

// EncodeToken turns a last evaluated key into an opaque continuation token.
func EncodeToken(lastKey map[string]string) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}
	b, err := json.Marshal(lastKey)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeToken is the inverse of EncodeToken.
func DecodeToken(token string) (map[string]string, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var key map[string]string
	if err := json.Unmarshal(b, &key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if key[AttrResourceID] == "" || key[AttrSubResourceID] == "" {
		return nil, fmt.Errorf("%w: missing primary key", ErrInvalidToken)
	}
	return key, nil
}
