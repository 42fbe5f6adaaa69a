package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/library"
)

func echo(name string) dispatch.HandlerFunc {
	return func(_ context.Context, req dispatch.Context) (any, error) {
		return name + ":" + req.PathParameters["bookId"], nil
	}
}

func newDispatcher() *dispatch.Dispatcher {
	return dispatch.New(
		dispatch.Route{Method: "POST", Resource: "/book/{bookId}/borrow/{userId}", Name: "BorrowBook", Handle: echo("borrow")},
		dispatch.Route{Method: "get", Resource: "/book/by-author/{authorId}", Name: "GetBooksByAuthor", Handle: echo("by-author")},
		dispatch.Route{Method: "GET", Resource: "/book", Name: "GetMissingBooks", Handle: echo("missing")},
	)
}

func TestDispatch(t *testing.T) {
	d := newDispatcher()

	tests := []struct {
		name   string
		method string
		res    string
		want   string
	}{
		{"command", "POST", "/book/{bookId}/borrow/{userId}", "borrow:b1"},
		{"lowercase method", "post", "/book/{bookId}/borrow/{userId}", "borrow:b1"},
		{"query", "GET", "/book/by-author/{authorId}", "by-author:b1"},
		{"registered lowercase", "GET", "/book", "missing:b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Dispatch(context.Background(), dispatch.Context{
				Method:         tt.method,
				Resource:       tt.res,
				PathParameters: map[string]string{"bookId": "b1"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatch_Unrecognized(t *testing.T) {
	d := newDispatcher()

	tests := []struct {
		name    string
		method  string
		res     string
		wantMsg string
	}{
		{"unknown resource", "GET", "/author", "Unrecognized Operation - Query: /author (AWS Request ID: req-1)"},
		{"wrong method", "GET", "/book/{bookId}/borrow/{userId}", "Unrecognized Operation - Query: /book/{bookId}/borrow/{userId} (AWS Request ID: req-1)"},
		{"concrete path is not a template", "POST", "/book/b1/borrow/u1", "Unrecognized Operation - Command: /book/b1/borrow/u1 (AWS Request ID: req-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), dispatch.Context{Method: tt.method, Resource: tt.res, RequestID: "req-1"})

			require.ErrorIs(t, err, dispatch.ErrUnrecognizedOperation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestDispatch_PropagatesHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	d := dispatch.New(dispatch.Route{
		Method:   "DELETE",
		Resource: "/x",
		Handle:   func(context.Context, dispatch.Context) (any, error) { return nil, boom },
	})

	_, err := d.Dispatch(context.Background(), dispatch.Context{Method: "DELETE", Resource: "/x"})
	assert.ErrorIs(t, err, boom)
}

func TestRegister_Replaces(t *testing.T) {
	d := newDispatcher()
	d.Register(dispatch.Route{Method: "GET", Resource: "/book", Name: "Replacement", Handle: echo("replaced")})

	assert.Len(t, d.Routes(), 3)
	r, ok := d.Match(dispatch.Context{Method: "GET", Resource: "/book"})
	require.True(t, ok)
	assert.Equal(t, "Replacement", r.Name)
	assert.Equal(t, dispatch.KindQuery, r.Kind())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, dispatch.KindQuery, dispatch.KindOf("GET"))
	assert.Equal(t, dispatch.KindQuery, dispatch.KindOf("get"))
	assert.Equal(t, dispatch.KindCommand, dispatch.KindOf("POST"))
	assert.Equal(t, dispatch.KindCommand, dispatch.KindOf("DELETE"))
}

func TestContext_Params(t *testing.T) {
	req := dispatch.Context{
		PathParameters:  map[string]string{"bookId": "b1", "userId": ""},
		QueryParameters: map[string]string{"status": "MISSING"},
	}

	v, err := req.PathParam("bookId")
	require.NoError(t, err)
	assert.Equal(t, "b1", v)

	_, err = req.PathParam("userId")
	assert.ErrorIs(t, err, library.ErrArgument)
	assert.EqualError(t, err, "Missing path parameter: userId")

	v, err = req.QueryParam("status")
	require.NoError(t, err)
	assert.Equal(t, "MISSING", v)

	_, err = dispatch.Context{}.QueryParam("status")
	assert.ErrorIs(t, err, library.ErrArgument)
}

func TestContext_DecodeBody(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	require.NoError(t, dispatch.Context{Body: `{"title":"Dune"}`}.DecodeBody(&v))
	assert.Equal(t, "Dune", v.Title)

	assert.ErrorIs(t, dispatch.Context{}.DecodeBody(&v), library.ErrArgument)
	assert.ErrorIs(t, dispatch.Context{Body: "{"}.DecodeBody(&v), library.ErrArgument)
}
