// Package operations implements the library's cross-entity commands and queries.
//
// Commands perform several single-record writes in sequence. A failure part way
// through leaves the earlier writes in place; there is no compensation.
package operations

import (
	"context"
	"time"

	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/store"
)

// Service runs commands and queries against the repositories.
type Service struct {
	repos *library.Repositories
	now   func() time.Time
}

// New creates a Service.
func New(repos *library.Repositories) *Service {
	return &Service{repos: repos, now: time.Now}
}

// WithClock replaces the clock used in generated comments.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) timestamp() string {
	return store.Timestamp(s.now())
}

// activeRental returns the BORROWED rental of a book, or nil when it is not borrowed.
func (s *Service) activeRental(ctx context.Context, bookID string) (*library.Rental, error) {
	p := store.Pagination{}
	for {
		page, err := s.repos.Rentals.QueryByResource(ctx, bookID, p)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Items {
			if r.Status == library.RentalBorrowed {
				return &r, nil
			}
		}
		if page.Next == "" {
			return nil, nil
		}
		p.Next = page.Next
	}
}

// collect reads every page of a list query.
func collect[M any](ctx context.Context, list func(context.Context, store.Pagination) (library.Page[M], error)) ([]M, error) {
	items := []M{}
	p := store.Pagination{}
	for {
		page, err := list(ctx, p)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.Next == "" {
			return items, nil
		}
		p.Next = page.Next
	}
}
