package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacentio/shelf/internal/keys"
	"github.com/jacentio/shelf/store"
)

// Descriptor binds a model type to its table layout.
type Descriptor[M, U, K any] struct {
	Schema store.Schema

	// Identify assigns generated identifiers to a new model and returns its key.
	Identify func(m *M) K

	// Locate returns the local resource and sub-resource ids of a key.
	Locate func(k K) (resourceID, subResourceID string)

	// IDFields names the resource and sub-resource ids in validation errors.
	IDFields [2]string

	// KeyOf is the inverse of Locate.
	KeyOf func(resourceID, subResourceID string) K

	// Status returns the value projected into the status index.
	Status func(m M) string

	// Attributes returns the entity-specific attributes to store.
	Attributes func(m M) map[string]string

	// Changes lists the fields present in a partial update.
	Changes func(u U) []store.Field

	// Build assembles a model from its key and stored record.
	Build func(k K, rec store.Record) M
}

// Page is one page of models.
type Page[M any] struct {
	Items []M    `json:"items"`
	Next  string `json:"next,omitempty"`
}

// Repository maps models of one entity type onto the gateway.
type Repository[M, U, K any] struct {
	gateway store.Gateway
	desc    Descriptor[M, U, K]
}

// NewRepository creates a Repository for the described entity type.
func NewRepository[M, U, K any](gateway store.Gateway, desc Descriptor[M, U, K]) *Repository[M, U, K] {
	return &Repository[M, U, K]{gateway: gateway, desc: desc}
}

// Schema returns the table layout of the entity type.
func (r *Repository[M, U, K]) Schema() store.Schema {
	return r.desc.Schema
}

// Create validates and stores a new model.
func (r *Repository[M, U, K]) Create(ctx context.Context, model M) (M, error) {
	var zero M
	if err := validateModel(r.desc.Schema.Type, model); err != nil {
		return zero, err
	}

	res, sub, err := r.locate(r.desc.Identify(&model))
	if err != nil {
		return zero, err
	}
	rec, err := r.gateway.Put(ctx, store.Record{
		Key:        r.desc.Schema.Key(res, sub),
		Type:       r.desc.Schema.Type,
		Status:     r.desc.Status(model),
		Attributes: r.desc.Attributes(model),
	})
	if err != nil {
		return zero, err
	}
	return r.build(rec)
}

// Read fetches a model by key.
func (r *Repository[M, U, K]) Read(ctx context.Context, key K) (M, error) {
	var zero M
	k, err := r.key(key)
	if err != nil {
		return zero, err
	}
	rec, err := r.gateway.Get(ctx, k)
	if err != nil {
		return zero, err
	}
	return r.build(rec)
}

// Update applies the fields present in a partial model and returns the result.
func (r *Repository[M, U, K]) Update(ctx context.Context, key K, update U) (M, error) {
	var zero M
	k, err := r.key(key)
	if err != nil {
		return zero, err
	}
	if err := validateModel(r.desc.Schema.Type, update); err != nil {
		return zero, err
	}
	rec, err := r.gateway.Update(ctx, k, r.desc.Changes(update))
	if err != nil {
		return zero, err
	}
	return r.build(rec)
}

// Delete removes a model and returns its key.
func (r *Repository[M, U, K]) Delete(ctx context.Context, key K) (K, error) {
	var zero K
	k, err := r.key(key)
	if err != nil {
		return zero, err
	}
	deleted, err := r.gateway.Delete(ctx, k)
	if err != nil {
		return zero, err
	}
	res, sub, err := r.desc.Schema.Decode(deleted)
	if err != nil {
		return zero, err
	}
	return r.desc.KeyOf(res, sub), nil
}

// QueryByTypeAndSortKey lists models sharing a sub-resource id,
// e.g. the books of one author. An empty id lists every model of the type.
func (r *Repository[M, U, K]) QueryByTypeAndSortKey(ctx context.Context, subResourceID string, page store.Pagination) (Page[M], error) {
	sortKey := ""
	if subResourceID != "" {
		if err := r.checkID(r.desc.IDFields[1], subResourceID); err != nil {
			return Page[M]{}, err
		}
		sortKey = r.desc.Schema.SortKey(subResourceID)
	}
	return r.query(ctx, store.ByTypeAndSortKey(r.desc.Schema.Type, sortKey), page)
}

// QueryByTypeAndStatus lists models in a status. An empty status lists every model of the type.
func (r *Repository[M, U, K]) QueryByTypeAndStatus(ctx context.Context, status string, page store.Pagination) (Page[M], error) {
	return r.query(ctx, store.ByTypeAndStatus(r.desc.Schema.Type, status), page)
}

// QueryByResource lists the models of this type stored under one resource id.
// Records of other types sharing the partition are skipped.
func (r *Repository[M, U, K]) QueryByResource(ctx context.Context, resourceID string, page store.Pagination) (Page[M], error) {
	if err := r.checkID(r.desc.IDFields[0], resourceID); err != nil {
		return Page[M]{}, err
	}
	return r.query(ctx, store.ByResource(r.desc.Schema.PartitionKey(resourceID)), page)
}

// ReadByResource returns the first model of this type stored under a resource id.
func (r *Repository[M, U, K]) ReadByResource(ctx context.Context, resourceID string) (M, error) {
	var zero M
	p := store.Pagination{}
	for {
		page, err := r.QueryByResource(ctx, resourceID, p)
		if err != nil {
			return zero, err
		}
		if len(page.Items) > 0 {
			return page.Items[0], nil
		}
		if page.Next == "" {
			return zero, &store.NotFoundError{Key: store.Key{ResourceID: r.desc.Schema.PartitionKey(resourceID)}}
		}
		p.Next = page.Next
	}
}

func (r *Repository[M, U, K]) query(ctx context.Context, conds []store.Condition, page store.Pagination) (Page[M], error) {
	result, err := r.gateway.Query(ctx, conds, page)
	if err != nil {
		return Page[M]{}, err
	}
	out := Page[M]{Items: make([]M, 0, len(result.Records)), Next: result.Next}
	for _, rec := range result.Records {
		if rec.Type != r.desc.Schema.Type {
			continue
		}
		m, err := r.build(rec)
		if err != nil {
			return Page[M]{}, err
		}
		out.Items = append(out.Items, m)
	}
	return out, nil
}

func (r *Repository[M, U, K]) key(key K) (store.Key, error) {
	res, sub, err := r.locate(key)
	if err != nil {
		return store.Key{}, err
	}
	return r.desc.Schema.Key(res, sub), nil
}

func (r *Repository[M, U, K]) locate(key K) (string, string, error) {
	res, sub := r.desc.Locate(key)
	if err := r.checkID(r.desc.IDFields[0], res); err != nil {
		return "", "", err
	}
	if err := r.checkID(r.desc.IDFields[1], sub); err != nil {
		return "", "", err
	}
	return res, sub, nil
}

// checkID rejects local ids that are empty or would break the composite key.
func (r *Repository[M, U, K]) checkID(field, id string) error {
	if field == "" {
		field = "id"
	}
	switch {
	case id == "":
		return &ValidationError{Entity: r.desc.Schema.Type, Field: field, Message: "is required"}
	case strings.Contains(id, keys.Delimiter):
		return &ValidationError{Entity: r.desc.Schema.Type, Field: field, Message: "must not contain " + keys.Delimiter}
	}
	return nil
}

func (r *Repository[M, U, K]) build(rec store.Record) (M, error) {
	var zero M
	res, sub, err := r.desc.Schema.Decode(rec.Key)
	if err != nil {
		return zero, fmt.Errorf("decode %s record: %w", r.desc.Schema.Type, err)
	}
	return r.desc.Build(r.desc.KeyOf(res, sub), rec), nil
}
