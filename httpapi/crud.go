package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/store"
)

type (
	keyFunc[K any]     func(r *http.Request) K
	listFunc[M any]    func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[M], error)
	prepareFunc[M any] func(r *http.Request, m *M)
)

func create[M, U, K any](a *api, repo *library.Repository[M, U, K], prepare prepareFunc[M]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m M
		if err := decode(r, &m); err != nil {
			a.fail(w, r, err)
			return
		}
		prepare(r, &m)
		out, err := repo.Create(r.Context(), m)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func read[M, U, K any](a *api, repo *library.Repository[M, U, K], key keyFunc[K]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.Read(r.Context(), key(r))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func update[M, U, K any](a *api, repo *library.Repository[M, U, K], key keyFunc[K]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u U
		if err := decode(r, &u); err != nil {
			a.fail(w, r, err)
			return
		}
		out, err := repo.Update(r.Context(), key(r), u)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func remove[M, U, K any](a *api, repo *library.Repository[M, U, K], key keyFunc[K]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.Delete(r.Context(), key(r))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func list[M any](a *api, query listFunc[M]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := query(r.Context(), r, pagination(r))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writePage(w, page)
	}
}

func (a *api) authorRoutes(r chi.Router) {
	repo := a.repos.Authors
	key := func(r *http.Request) library.AuthorKey {
		return library.AuthorKey{ID: chi.URLParam(r, "id")}
	}

	r.Post("/", create(a, repo, func(*http.Request, *library.Author) {}))
	r.Get("/", list(a, func(ctx context.Context, _ *http.Request, p store.Pagination) (library.Page[library.Author], error) {
		return repo.QueryByTypeAndSortKey(ctx, "", p)
	}))
	r.Get("/{id}", read(a, repo, key))
	r.Put("/{id}", update(a, repo, key))
	r.Delete("/{id}", remove(a, repo, key))
}

func (a *api) bookRoutes(r chi.Router) {
	repo := a.repos.Books
	key := func(r *http.Request) library.BookKey {
		return library.BookKey{BookID: chi.URLParam(r, "bookId"), AuthorID: chi.URLParam(r, "authorId")}
	}

	r.Get("/", list(a, func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[library.Book], error) {
		return repo.QueryByTypeAndStatus(ctx, r.URL.Query().Get("status"), p)
	}))
	r.Post("/{authorId}", create(a, repo, func(r *http.Request, m *library.Book) {
		m.AuthorID = chi.URLParam(r, "authorId")
		m.Status = library.BookNotAvailable
	}))
	r.Get("/{authorId}", list(a, func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[library.Book], error) {
		return repo.QueryByTypeAndSortKey(ctx, chi.URLParam(r, "authorId"), p)
	}))
	r.Get("/{authorId}/{bookId}", read(a, repo, key))
	r.Put("/{authorId}/{bookId}", update(a, repo, key))
	r.Delete("/{authorId}/{bookId}", remove(a, repo, key))
}

func (a *api) userRoutes(r chi.Router) {
	repo := a.repos.Users
	key := func(r *http.Request) library.UserKey {
		return library.UserKey{ID: chi.URLParam(r, "id")}
	}

	r.Post("/", create(a, repo, func(_ *http.Request, m *library.User) {
		m.Status = library.UserNotVerified
		m.Comment = ""
	}))
	r.Get("/", list(a, func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[library.User], error) {
		return repo.QueryByTypeAndStatus(ctx, r.URL.Query().Get("status"), p)
	}))
	r.Get("/{id}", read(a, repo, key))
	r.Put("/{id}", update(a, repo, key))
	r.Delete("/{id}", remove(a, repo, key))
}

func (a *api) rentalRoutes(r chi.Router) {
	repo := a.repos.Rentals
	key := func(r *http.Request) library.RentalKey {
		return library.RentalKey{BookID: chi.URLParam(r, "bookId"), UserID: chi.URLParam(r, "userId")}
	}

	r.Get("/", list(a, func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[library.Rental], error) {
		return repo.QueryByTypeAndStatus(ctx, r.URL.Query().Get("status"), p)
	}))
	r.Get("/{userId}", list(a, func(ctx context.Context, r *http.Request, p store.Pagination) (library.Page[library.Rental], error) {
		return repo.QueryByTypeAndSortKey(ctx, chi.URLParam(r, "userId"), p)
	}))
	r.Post("/{userId}/{bookId}", create(a, repo, func(r *http.Request, m *library.Rental) {
		m.BookID = chi.URLParam(r, "bookId")
		m.UserID = chi.URLParam(r, "userId")
	}))
	r.Get("/{userId}/{bookId}", read(a, repo, key))
	r.Put("/{userId}/{bookId}", update(a, repo, key))
	r.Delete("/{userId}/{bookId}", remove(a, repo, key))
}
