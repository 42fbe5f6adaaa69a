package operations

import (
	"context"
	"fmt"

	"github.com/jacentio/shelf/library"
)

// AuthorInput references an existing author by ID or describes a new one.
type AuthorInput struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
}

// AddNewBook adds a book, creating its author when no author ID is given.
type AddNewBook struct {
	RequestID string      `json:"-"`
	Author    AuthorInput `json:"author"`
	Title     string      `json:"title"`
	ISBN      string      `json:"isbn"`
}

// AddNewBookResult identifies the created book and its author.
type AddNewBookResult struct {
	Success  bool   `json:"success"`
	BookID   string `json:"bookId"`
	AuthorID string `json:"authorId"`
}

// AddNewBook creates an AVAILABLE book.
func (s *Service) AddNewBook(ctx context.Context, cmd AddNewBook) (AddNewBookResult, error) {
	author, err := s.getOrCreateAuthor(ctx, cmd.Author)
	if err != nil {
		return AddNewBookResult{}, err
	}

	book, err := s.repos.Books.Create(ctx, library.Book{
		AuthorID: author.ID,
		Title:    cmd.Title,
		ISBN:     cmd.ISBN,
		Status:   library.BookAvailable,
	})
	if err != nil {
		return AddNewBookResult{}, err
	}
	return AddNewBookResult{Success: true, BookID: book.BookID, AuthorID: author.ID}, nil
}

func (s *Service) getOrCreateAuthor(ctx context.Context, in AuthorInput) (library.Author, error) {
	if in.ID != "" {
		return s.repos.Authors.Read(ctx, library.AuthorKey{ID: in.ID})
	}
	return s.repos.Authors.Create(ctx, library.Author{Name: in.Name, Birthdate: in.Birthdate})
}

// BorrowBook lends a book to a user.
type BorrowBook struct {
	RequestID string
	BookID    string
	UserID    string
}

// BorrowBookResult echoes the lent book and its borrower.
type BorrowBookResult struct {
	Success bool   `json:"success"`
	BookID  string `json:"bookId"`
	UserID  string `json:"userId"`
}

// BorrowBook marks the book NOT_AVAILABLE and records a BORROWED rental.
// It fails with a ConflictError when the book is already borrowed.
func (s *Service) BorrowBook(ctx context.Context, cmd BorrowBook) (BorrowBookResult, error) {
	user, err := s.repos.Users.Read(ctx, library.UserKey{ID: cmd.UserID})
	if err != nil {
		return BorrowBookResult{}, err
	}
	book, err := s.repos.Books.ReadByResource(ctx, cmd.BookID)
	if err != nil {
		return BorrowBookResult{}, err
	}

	active, err := s.activeRental(ctx, book.BookID)
	if err != nil {
		return BorrowBookResult{}, err
	}
	if active != nil {
		return BorrowBookResult{}, &library.ConflictError{Message: "Book is already borrowed"}
	}

	notAvailable := library.BookNotAvailable
	if _, err := s.repos.Books.Update(ctx,
		library.BookKey{BookID: book.BookID, AuthorID: book.AuthorID},
		library.BookUpdate{Status: &notAvailable},
	); err != nil {
		return BorrowBookResult{}, err
	}

	rental, err := s.repos.Rentals.Create(ctx, library.Rental{
		BookID:  book.BookID,
		UserID:  user.ID,
		Status:  library.RentalBorrowed,
		Comment: fmt.Sprintf("Borrowed by %s at %s", user.ID, s.timestamp()),
	})
	if err != nil {
		return BorrowBookResult{}, err
	}
	return BorrowBookResult{Success: true, BookID: rental.BookID, UserID: rental.UserID}, nil
}

// ReportMissingBook reports a borrowed book as lost by its borrower.
type ReportMissingBook struct {
	RequestID string
	BookID    string
	UserID    string
}

// ReportMissingBookResult echoes the missing book and the suspended user.
type ReportMissingBookResult struct {
	Success bool   `json:"success"`
	BookID  string `json:"bookId"`
	UserID  string `json:"userId"`
}

// ReportMissingBook marks the book MISSING, suspends the borrower and removes the rental.
// Only the current borrower may report the book: a report by any other user
// fails with an ArgumentError before anything is written.
func (s *Service) ReportMissingBook(ctx context.Context, cmd ReportMissingBook) (ReportMissingBookResult, error) {
	user, err := s.repos.Users.Read(ctx, library.UserKey{ID: cmd.UserID})
	if err != nil {
		return ReportMissingBookResult{}, err
	}
	book, err := s.repos.Books.ReadByResource(ctx, cmd.BookID)
	if err != nil {
		return ReportMissingBookResult{}, err
	}

	active, err := s.activeRental(ctx, book.BookID)
	if err != nil {
		return ReportMissingBookResult{}, err
	}
	if active == nil {
		return ReportMissingBookResult{}, library.NewArgumentError("Book is not missing, as it is still available")
	}
	if active.UserID != user.ID {
		return ReportMissingBookResult{}, library.NewArgumentError("Book %s is borrowed by another user", book.BookID)
	}

	missing := library.BookMissing
	if _, err := s.repos.Books.Update(ctx,
		library.BookKey{BookID: book.BookID, AuthorID: book.AuthorID},
		library.BookUpdate{Status: &missing},
	); err != nil {
		return ReportMissingBookResult{}, err
	}

	suspended := library.UserSuspended
	comment := fmt.Sprintf("Suspended due to missing book %s at %s", book.BookID, s.timestamp())
	if _, err := s.repos.Users.Update(ctx,
		library.UserKey{ID: user.ID},
		library.UserUpdate{Status: &suspended, Comment: &comment},
	); err != nil {
		return ReportMissingBookResult{}, err
	}

	if _, err := s.repos.Rentals.Delete(ctx, library.RentalKey{BookID: book.BookID, UserID: user.ID}); err != nil {
		return ReportMissingBookResult{}, err
	}
	return ReportMissingBookResult{Success: true, BookID: book.BookID, UserID: user.ID}, nil
}
