// Package memstore provides an in-memory implementation of store.Gateway.
//
// It follows the DynamoDB gateway's semantics: conditional update and delete,
// sparse status index, sort order, page limits and continuation tokens.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jacentio/shelf/store"
)

// Store keeps records in a map keyed by primary key.
type Store struct {
	mu       sync.RWMutex
	items    map[store.Key]map[string]string
	registry *store.Registry
	pageSize int32
	now      func() time.Time

	putError    error
	updateError error
	deleteError error
	queryError  error
}

var _ store.Gateway = (*Store)(nil)

// New creates an empty Store validating writes against registry.
func New(registry *store.Registry) *Store {
	if registry == nil {
		registry = store.NewRegistry()
	}
	return &Store{
		items:    make(map[store.Key]map[string]string),
		registry: registry,
		pageSize: store.DefaultPageSize,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// WithPageSize sets the default query limit.
func (s *Store) WithPageSize(n int32) *Store {
	s.pageSize = n
	return s
}

// WithPutError makes Put operations return an error.
func (s *Store) WithPutError(err error) *Store {
	s.putError = err
	return s
}

// WithUpdateError makes Update operations return an error.
func (s *Store) WithUpdateError(err error) *Store {
	s.updateError = err
	return s
}

// WithDeleteError makes Delete operations return an error.
func (s *Store) WithDeleteError(err error) *Store {
	s.deleteError = err
	return s
}

// WithQueryError makes Query operations return an error.
func (s *Store) WithQueryError(err error) *Store {
	s.queryError = err
	return s
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Put stores a full record.
func (s *Store) Put(_ context.Context, record store.Record) (store.Record, error) {
	if s.putError != nil {
		return store.Record{}, s.putError
	}
	rec, err := s.registry.Prepare(record)
	if err != nil {
		return store.Record{}, err
	}
	ts := store.Timestamp(s.now())
	rec.CreatedAt = ts
	rec.UpdatedAt = ts

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = rec.Item()
	return store.RecordFromItem(s.items[rec.Key]), nil
}

// Get retrieves a record by key.
func (s *Store) Get(_ context.Context, key store.Key) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return store.Record{}, &store.NotFoundError{Key: key}
	}
	return store.RecordFromItem(item), nil
}

// Update sets fields on an existing record.
func (s *Store) Update(_ context.Context, key store.Key, fields []store.Field) (store.Record, error) {
	if err := store.CheckFields(fields); err != nil {
		return store.Record{}, err
	}
	if s.updateError != nil {
		return store.Record{}, s.updateError
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return store.Record{}, &store.NotFoundError{Key: key}
	}
	updated := make(map[string]string, len(item)+len(fields))
	for k, v := range item {
		updated[k] = v
	}
	for _, f := range fields {
		updated[f.Name] = f.Value
	}
	updated[store.AttrUpdatedAt] = store.Timestamp(s.now())
	s.items[key] = updated
	return store.RecordFromItem(updated), nil
}

// Delete removes an existing record.
func (s *Store) Delete(_ context.Context, key store.Key) (store.Key, error) {
	if s.deleteError != nil {
		return store.Key{}, s.deleteError
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return store.Key{}, &store.NotFoundError{Key: key}
	}
	delete(s.items, key)
	return key, nil
}

// Query returns one page of records matching an equality chain.
func (s *Store) Query(_ context.Context, conds []store.Condition, page store.Pagination) (store.Page, error) {
	if s.queryError != nil {
		return store.Page{}, s.queryError
	}
	index, err := store.Target(conds)
	if err != nil {
		return store.Page{}, err
	}
	partition, sortAttr := index.KeyAttributes()

	var start map[string]string
	if page.Next != "" {
		if start, err = store.DecodeToken(page.Next); err != nil {
			return store.Page{}, err
		}
	}

	s.mu.RLock()
	var matched []map[string]string
	for _, item := range s.items {
		// Records without the index sort attribute are not projected into it.
		if _, ok := item[sortAttr]; !ok {
			continue
		}
		if matches(item, conds) {
			matched = append(matched, item)
		}
	}
	s.mu.RUnlock()

	cmp := func(a, b map[string]string) int {
		if c := strings.Compare(a[sortAttr], b[sortAttr]); c != 0 {
			return c
		}
		if c := strings.Compare(a[store.AttrResourceID], b[store.AttrResourceID]); c != 0 {
			return c
		}
		return strings.Compare(a[store.AttrSubResourceID], b[store.AttrSubResourceID])
	}
	if page.Descending {
		slices.SortFunc(matched, func(a, b map[string]string) int { return cmp(b, a) })
	} else {
		slices.SortFunc(matched, cmp)
	}

	if start != nil {
		i := 0
		for i < len(matched) {
			c := cmp(matched[i], start)
			if (!page.Descending && c > 0) || (page.Descending && c < 0) {
				break
			}
			i++
		}
		matched = matched[i:]
	}

	limit := int(page.Limit)
	if limit < 1 {
		limit = int(s.pageSize)
	}

	out := store.Page{Records: make([]store.Record, 0, min(limit, len(matched)))}
	for i, item := range matched {
		if i == limit {
			last := matched[i-1]
			next, err := store.EncodeToken(map[string]string{
				store.AttrResourceID:    last[store.AttrResourceID],
				store.AttrSubResourceID: last[store.AttrSubResourceID],
				partition:               last[partition],
				sortAttr:                last[sortAttr],
			})
			if err != nil {
				return store.Page{}, err
			}
			out.Next = next
			break
		}
		out.Records = append(out.Records, store.RecordFromItem(item))
	}
	return out, nil
}

func matches(item map[string]string, conds []store.Condition) bool {
	for _, c := range conds {
		if item[c.Name] != c.Value {
			return false
		}
	}
	return true
}
