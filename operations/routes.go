package operations

import (
	"context"
	"strings"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/library"
)

// CommandRoutes returns the state-changing operations.
func (s *Service) CommandRoutes() []dispatch.Route {
	return []dispatch.Route{
		{Method: "POST", Resource: "/book/new", Name: "AddNewBook", Handle: s.handleAddNewBook},
		{Method: "POST", Resource: "/book/{bookId}/borrow/{userId}", Name: "BorrowBook", Handle: s.handleBorrowBook},
		{Method: "POST", Resource: "/book/{bookId}/missing/{userId}", Name: "ReportMissingBook", Handle: s.handleReportMissingBook},
	}
}

// QueryRoutes returns the read operations.
func (s *Service) QueryRoutes() []dispatch.Route {
	return []dispatch.Route{
		{Method: "GET", Resource: "/book/by-author/{authorId}", Name: "GetBooksByAuthor", Handle: s.handleGetBooksByAuthor},
		{Method: "GET", Resource: "/book/by-user/{userId}", Name: "GetBorrowedBooksForUser", Handle: s.handleGetBorrowedBooksForUser},
		{Method: "GET", Resource: "/book", Name: "GetMissingBooks", Handle: s.handleGetMissingBooks},
	}
}

// Routes returns every operation.
func (s *Service) Routes() []dispatch.Route {
	return append(s.CommandRoutes(), s.QueryRoutes()...)
}

func (s *Service) handleAddNewBook(ctx context.Context, req dispatch.Context) (any, error) {
	var cmd AddNewBook
	if err := req.DecodeBody(&cmd); err != nil {
		return nil, err
	}
	cmd.RequestID = req.RequestID
	return s.AddNewBook(ctx, cmd)
}

func (s *Service) handleBorrowBook(ctx context.Context, req dispatch.Context) (any, error) {
	bookID, userID, err := bookAndUser(req)
	if err != nil {
		return nil, err
	}
	return s.BorrowBook(ctx, BorrowBook{RequestID: req.RequestID, BookID: bookID, UserID: userID})
}

func (s *Service) handleReportMissingBook(ctx context.Context, req dispatch.Context) (any, error) {
	bookID, userID, err := bookAndUser(req)
	if err != nil {
		return nil, err
	}
	return s.ReportMissingBook(ctx, ReportMissingBook{RequestID: req.RequestID, BookID: bookID, UserID: userID})
}

func (s *Service) handleGetBooksByAuthor(ctx context.Context, req dispatch.Context) (any, error) {
	authorID, err := req.PathParam("authorId")
	if err != nil {
		return nil, err
	}
	return s.GetBooksByAuthor(ctx, authorID)
}

func (s *Service) handleGetBorrowedBooksForUser(ctx context.Context, req dispatch.Context) (any, error) {
	userID, err := req.PathParam("userId")
	if err != nil {
		return nil, err
	}
	if err := requireStatus(req, string(library.RentalBorrowed)); err != nil {
		return nil, err
	}
	return s.GetBorrowedBooksForUser(ctx, userID)
}

func (s *Service) handleGetMissingBooks(ctx context.Context, req dispatch.Context) (any, error) {
	if err := requireStatus(req, string(library.BookMissing)); err != nil {
		return nil, err
	}
	return s.GetMissingBooks(ctx)
}

func bookAndUser(req dispatch.Context) (string, string, error) {
	bookID, err := req.PathParam("bookId")
	if err != nil {
		return "", "", err
	}
	userID, err := req.PathParam("userId")
	if err != nil {
		return "", "", err
	}
	return bookID, userID, nil
}

func requireStatus(req dispatch.Context, want string) error {
	status, err := req.QueryParam("status")
	if err != nil {
		return err
	}
	if !strings.EqualFold(status, want) {
		return library.NewArgumentError("Unsupported status filter: %s", status)
	}
	return nil
}
