// Package httpapi serves the entity CRUD endpoints and the dispatcher over HTTP.
package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/internal/httperr"
	"github.com/jacentio/shelf/internal/logging"
	"github.com/jacentio/shelf/library"
)

// NextTokenHeader carries the continuation token of a list response.
const NextTokenHeader = "X-Next-Token"

// Options configures the router. Dispatcher and Gatherer are optional.
type Options struct {
	Repositories *library.Repositories
	Dispatcher   *dispatch.Dispatcher
	Gatherer     prometheus.Gatherer
	Logger       *zap.Logger
}

type api struct {
	repos  *library.Repositories
	logger *zap.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &api{repos: opts.Repositories, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{NextTokenHeader, "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", health)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/author", a.authorRoutes)
	r.Route("/book", a.bookRoutes)
	r.Route("/user", a.userRoutes)
	r.Route("/rental", a.rentalRoutes)

	if opts.Dispatcher != nil {
		r.Route("/cqrs", func(r chi.Router) {
			MountDispatcher(r, opts.Dispatcher, logger)
		})
	}
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"healthy"}`)
}

// fail logs err and writes the mapped error response.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	failWith(a.logger, w, r, err)
}

func failWith(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())
	status := httperr.Write(w, err, requestID)
	logger.Error("request error",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
}
