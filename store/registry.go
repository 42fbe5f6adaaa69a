package store

import (
	"fmt"

	"github.com/jacentio/shelf/internal/keys"
)

// Schema describes how one entity type is laid out in the table.
type Schema struct {
	// Type is the entity type discriminator stored in the type attribute (e.g. "Book").
	Type string

	// ResourceType tags the partition key (e.g. "Book" in "Book#<id>").
	ResourceType string

	// SubResourceType tags the sort key (e.g. "Author" in "Author#<id>").
	SubResourceType string

	// Attributes whitelists the entity-specific attributes a record may carry.
	Attributes []string

	// StatusIndexed marks types whose status is projected into the status index.
	StatusIndexed bool
}

// Key encodes the local identifiers into a primary key.
func (s Schema) Key(resourceID, subResourceID string) Key {
	return Key{
		ResourceID:    keys.Compose(s.ResourceType, resourceID),
		SubResourceID: keys.Compose(s.SubResourceType, subResourceID),
	}
}

// SortKey encodes a sort key value for type index queries.
func (s Schema) SortKey(subResourceID string) string {
	return keys.Compose(s.SubResourceType, subResourceID)
}

// PartitionKey encodes a partition key value for primary table queries.
func (s Schema) PartitionKey(resourceID string) string {
	return keys.Compose(s.ResourceType, resourceID)
}

// Decode splits a primary key back into local identifiers.
func (s Schema) Decode(k Key) (resourceID, subResourceID string, err error) {
	rt, rid, err := keys.Split(k.ResourceID)
	if err != nil {
		return "", "", err
	}
	st, sid, err := keys.Split(k.SubResourceID)
	if err != nil {
		return "", "", err
	}
	if rt != s.ResourceType || st != s.SubResourceType {
		return "", "", fmt.Errorf("%w: %s expects %s#/%s#, got %s/%s",
			ErrInvalidKey, s.Type, s.ResourceType, s.SubResourceType, k.ResourceID, k.SubResourceID)
	}
	return rid, sid, nil
}

func (s Schema) allows(attr string) bool {
	for _, a := range s.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Registry holds the schema of every storable entity type.
type Registry struct {
	schemas []Schema
	byType  map[string]Schema
}

// NewRegistry creates a Registry with the given schemas.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{
		schemas: []Schema{},
		byType:  make(map[string]Schema),
	}
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

// Register adds a schema, replacing any schema with the same type.
func (r *Registry) Register(s Schema) {
	if _, ok := r.byType[s.Type]; !ok {
		r.schemas = append(r.schemas, s)
	} else {
		for i := range r.schemas {
			if r.schemas[i].Type == s.Type {
				r.schemas[i] = s
			}
		}
	}
	r.byType[s.Type] = s
}

// Lookup returns the schema registered for an entity type.
func (r *Registry) Lookup(entityType string) (Schema, bool) {
	s, ok := r.byType[entityType]
	return s, ok
}

// Schemas returns all registered schemas in registration order.
func (r *Registry) Schemas() []Schema {
	return r.schemas
}

// Prepare checks a record against its schema before it is written.
// Attributes outside the whitelist are dropped, as is the status of
// types that are not status indexed.
func (r *Registry) Prepare(rec Record) (Record, error) {
	s, ok := r.Lookup(rec.Type)
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}
	if _, _, err := s.Decode(rec.Key); err != nil {
		return Record{}, err
	}

	out := rec
	out.Attributes = make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		if s.allows(k) {
			out.Attributes[k] = v
		}
	}
	if !s.StatusIndexed {
		out.Status = ""
	}
	return out, nil
}
