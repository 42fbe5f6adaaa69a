package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/library"
)

// MountDispatcher registers every dispatcher route on r using the route's
// resource template as the chi pattern. Requests matching no route are
// answered with the dispatcher's unrecognized operation error.
func MountDispatcher(r chi.Router, d *dispatch.Dispatcher, logger *zap.Logger) {
	serve := func(resource string) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				failWith(logger, w, req, library.NewArgumentError("Unreadable request body: %v", err))
				return
			}
			out, err := d.Dispatch(req.Context(), dispatch.Context{
				Method:          req.Method,
				Resource:        resource,
				PathParameters:  urlParams(req),
				QueryParameters: queryParams(req),
				Body:            string(body),
				RequestID:       middleware.GetReqID(req.Context()),
			})
			if err != nil {
				failWith(logger, w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		}
	}

	for _, route := range d.Routes() {
		r.Method(route.Method, route.Resource, serve(route.Resource))
	}
	unmatched := func(w http.ResponseWriter, req *http.Request) {
		resource := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePath != "" {
			resource = rctx.RoutePath
		}
		serve(resource)(w, req)
	}
	r.NotFound(unmatched)
	r.MethodNotAllowed(unmatched)
}

func urlParams(r *http.Request) map[string]string {
	params := map[string]string{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, k := range rctx.URLParams.Keys {
		if k != "*" {
			params[k] = rctx.URLParams.Values[i]
		}
	}
	return params
}

func queryParams(r *http.Request) map[string]string {
	params := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}
