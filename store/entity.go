package store

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
)

// Attribute names shared by every record in the table.
const (
	AttrResourceID    = "resourceId"
	AttrSubResourceID = "subResourceId"
	AttrType          = "type"
	AttrStatus        = "status"
	AttrCreatedAt     = "createdAt"
	AttrUpdatedAt     = "updatedAt"
)

// Gateway is the storage boundary used by repositories.
// Every call is a single-record request; there are no transactions.
type Gateway interface {
	// Put inserts or overwrites a full record and stamps its timestamps.
	Put(ctx context.Context, record Record) (Record, error)

	// Get fetches a record by primary key. Missing records yield ErrNotFound.
	Get(ctx context.Context, key Key) (Record, error)

	// Update merges fields into an existing record and returns the full result.
	Update(ctx context.Context, key Key, fields []Field) (Record, error)

	// Delete removes an existing record and returns its key.
	Delete(ctx context.Context, key Key) (Key, error)

	// Query runs an equality chain built by ByType, ByTypeAndSortKey,
	// ByTypeAndStatus or ByResource.
	Query(ctx context.Context, conditions []Condition, page Pagination) (Page, error)
}

// Key is the primary key of a record.
type Key struct {
	ResourceID    string `dynamodbav:"resourceId" json:"resourceId"`
	SubResourceID string `dynamodbav:"subResourceId" json:"subResourceId"`
}

// Record is a single row of the table.
type Record struct {
	Key

	// Type is the entity type discriminator (e.g. "Book"). Immutable.
	Type string

	// Status is projected into the status index. Empty means not indexed.
	Status string

	// CreatedAt is the ISO 8601 creation timestamp.
	CreatedAt string

	// UpdatedAt is the ISO 8601 last update timestamp.
	UpdatedAt string

	// Attributes holds the entity-specific attributes.
	Attributes map[string]string
}

// Attr returns an entity attribute, or "" when it is not set.
func (r Record) Attr(name string) string {
	return r.Attributes[name]
}

// Item flattens the record into its stored attribute map.
func (r Record) Item() map[string]string {
	item := make(map[string]string, len(r.Attributes)+6)
	for k, v := range r.Attributes {
		item[k] = v
	}
	item[AttrResourceID] = r.ResourceID
	item[AttrSubResourceID] = r.SubResourceID
	item[AttrType] = r.Type
	if r.Status != "" {
		item[AttrStatus] = r.Status
	}
	if r.CreatedAt != "" {
		item[AttrCreatedAt] = r.CreatedAt
	}
	if r.UpdatedAt != "" {
		item[AttrUpdatedAt] = r.UpdatedAt
	}
	return item
}

// RecordFromItem is the inverse of Record.Item.
func RecordFromItem(item map[string]string) Record {
	rec := Record{Attributes: make(map[string]string)}
	for k, v := range item {
		switch k {
		case AttrResourceID:
			rec.ResourceID = v
		case AttrSubResourceID:
			rec.SubResourceID = v
		case AttrType:
			rec.Type = v
		case AttrStatus:
			rec.Status = v
		case AttrCreatedAt:
			rec.CreatedAt = v
		case AttrUpdatedAt:
			rec.UpdatedAt = v
		default:
			rec.Attributes[k] = v
		}
	}
	return rec
}

// Field is a single attribute assignment in an update.
type Field struct {
	Name  string
	Value string
}

// Timestamp formats t the way the gateways stamp createdAt and updatedAt.
func Timestamp(t time.Time) string {
	return strfmt.DateTime(t.UTC()).String()
}

// reserved attributes are managed by the gateway and cannot be updated.
var reserved = map[string]bool{
	AttrResourceID:    true,
	AttrSubResourceID: true,
	AttrType:          true,
	AttrCreatedAt:     true,
	AttrUpdatedAt:     true,
}

// CheckFields validates an update field list.
func CheckFields(fields []Field) error {
	if len(fields) == 0 {
		return ErrNoFieldsToUpdate
	}
	for _, f := range fields {
		if f.Name == "" || reserved[f.Name] {
			return &ReservedFieldError{Name: f.Name}
		}
	}
	return nil
}
