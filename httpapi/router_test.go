package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/httpapi"
	"github.com/jacentio/shelf/internal/httperr"
	"github.com/jacentio/shelf/internal/metrics"
	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/operations"
	"github.com/jacentio/shelf/store/memstore"
)

type testServer struct {
	handler http.Handler
	repos   *library.Repositories
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	gw := metrics.NewGateway(memstore.New(library.NewRegistry()), reg)
	repos := library.NewRepositories(gw)
	return &testServer{
		handler: httpapi.NewRouter(httpapi.Options{
			Repositories: repos,
			Dispatcher:   dispatch.New(operations.New(repos).Routes()...),
			Gatherer:     reg,
		}),
		repos: repos,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthorLifecycle(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/author", `{"name":"John Doe","birthdate":"1975-02-15T10:10:00.000Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeInto[library.Author](t, rec)
	require.NotEmpty(t, created.ID)

	rec = s.do(t, http.MethodGet, "/author", "")
	require.Equal(t, http.StatusOK, rec.Code)
	authors := decodeInto[[]library.Author](t, rec)
	require.Len(t, authors, 1)
	assert.Equal(t, created.ID, authors[0].ID)
	assert.Equal(t, "John Doe", authors[0].Name)
	assert.Equal(t, "1975-02-15T10:10:00.000Z", authors[0].Birthdate)

	rec = s.do(t, http.MethodPut, "/author/"+created.ID, `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Jane Doe", decodeInto[library.Author](t, rec).Name)

	rec = s.do(t, http.MethodDelete, "/author/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, library.AuthorKey{ID: created.ID}, decodeInto[library.AuthorKey](t, rec))

	rec = s.do(t, http.MethodGet, "/author", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/author/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatuses(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/author", `{"birthdate":"1975-02-15T10:10:00.000Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/author", `{"name":"A","birthdate":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/author", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/book/some-author/some-book", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeInto[httperr.Response](t, rec)
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.RequestID)

	rec = s.do(t, http.MethodPut, "/book/some-author/some-book", `{"title":"New"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/user/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/user?next=garbage", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/rental/u1/a%23b", `{"status":"BORROWED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeInto[httperr.Response](t, rec)
	assert.Contains(t, body.Error, "must not contain #")

	rec = s.do(t, http.MethodGet, "/user/u%231", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/author", `{"name":"Ann","birthdate":"1980-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	author := decodeInto[library.Author](t, rec)
	assert.Equal(t, "1980-01-01T00:00:00.000Z", author.Birthdate)

	rec = s.do(t, http.MethodPost, "/book/"+author.ID, `{"title":"Dune","isbn":"9780441013593","status":"AVAILABLE"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	book := decodeInto[library.Book](t, rec)
	assert.Equal(t, library.BookNotAvailable, book.Status)
	assert.Equal(t, author.ID, book.AuthorID)

	rec = s.do(t, http.MethodGet, "/book/"+author.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]library.Book](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/book?status=NOT_AVAILABLE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]library.Book](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/book?status=MISSING", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/book/"+author.ID+"/"+book.BookID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, book.Title, decodeInto[library.Book](t, rec).Title)
}

func TestUserPagination(t *testing.T) {
	s := newServer(t)
	for i := 0; i < 3; i++ {
		body := `{"name":"` + faker.Name() + `","email":"` + faker.Email() + `","status":"VERIFIED"}`
		rec := s.do(t, http.MethodPost, "/user", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		user := decodeInto[library.User](t, rec)
		assert.Equal(t, library.UserNotVerified, user.Status)
	}

	rec := s.do(t, http.MethodGet, "/user?pageSize=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeInto[[]library.User](t, rec)
	assert.Len(t, first, 2)
	next := rec.Header().Get(httpapi.NextTokenHeader)
	require.NotEmpty(t, next)

	rec = s.do(t, http.MethodGet, "/user?pageSize=2&lastKey="+next, "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeInto[[]library.User](t, rec)
	assert.Len(t, second, 1)
	assert.Empty(t, rec.Header().Get(httpapi.NextTokenHeader))
	assert.NotContains(t, []string{first[0].ID, first[1].ID}, second[0].ID)
}

func TestRentalRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/rental/u1/b1", `{"status":"BORROWED","comment":"front desk"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/rental/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rentals := decodeInto[[]library.Rental](t, rec)
	require.Len(t, rentals, 1)
	assert.Equal(t, "b1", rentals[0].BookID)

	rec = s.do(t, http.MethodPut, "/rental/u1/b1", `{"status":"RETURNED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, library.RentalReturned, decodeInto[library.Rental](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/rental?status=BORROWED", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/rental/u1/b1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, library.RentalKey{BookID: "b1", UserID: "u1"}, decodeInto[library.RentalKey](t, rec))
}

func TestDispatcherMount(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/cqrs/book/new", `{"author":{"name":"Ann","birthdate":"1980-01-01T00:00:00.000Z"},"title":"Dune","isbn":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	added := decodeInto[operations.AddNewBookResult](t, rec)
	require.True(t, added.Success)

	rec = s.do(t, http.MethodPost, "/user", `{"name":"Bob","email":"bob@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeInto[library.User](t, rec)

	borrow := "/cqrs/book/" + added.BookID + "/borrow/" + user.ID
	rec = s.do(t, http.MethodPost, borrow, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, borrow, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/cqrs/book/by-user/"+user.ID+"?status=BORROWED", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"`+added.BookID+`"}]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/cqrs/book/by-author/"+added.AuthorID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]library.Book](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/cqrs/shelves", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeInto[httperr.Response](t, rec).Error, "Unrecognized Operation - Query: /shelves")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	s.do(t, http.MethodGet, "/author", "")
	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shelf_store_operations_total{operation="query",result="ok"} 1`)
}
