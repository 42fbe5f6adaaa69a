package operations

import (
	"context"

	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/store"
)

// BookRef identifies a book in query results.
type BookRef struct {
	ID string `json:"id"`
}

// GetBooksByAuthor lists every book of an author.
func (s *Service) GetBooksByAuthor(ctx context.Context, authorID string) ([]library.Book, error) {
	return collect(ctx, func(ctx context.Context, p store.Pagination) (library.Page[library.Book], error) {
		return s.repos.Books.QueryByTypeAndSortKey(ctx, authorID, p)
	})
}

// GetBorrowedBooksForUser lists the books a user currently holds.
func (s *Service) GetBorrowedBooksForUser(ctx context.Context, userID string) ([]BookRef, error) {
	rentals, err := collect(ctx, func(ctx context.Context, p store.Pagination) (library.Page[library.Rental], error) {
		return s.repos.Rentals.QueryByTypeAndSortKey(ctx, userID, p)
	})
	if err != nil {
		return nil, err
	}
	refs := []BookRef{}
	for _, r := range rentals {
		if r.Status == library.RentalBorrowed {
			refs = append(refs, BookRef{ID: r.BookID})
		}
	}
	return refs, nil
}

// GetMissingBooks lists every book reported missing.
func (s *Service) GetMissingBooks(ctx context.Context) ([]library.Book, error) {
	return collect(ctx, func(ctx context.Context, p store.Pagination) (library.Page[library.Book], error) {
		return s.repos.Books.QueryByTypeAndStatus(ctx, string(library.BookMissing), p)
	})
}
