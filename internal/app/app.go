// Package app wires configuration, storage and transports into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/httpapi"
	"github.com/jacentio/shelf/internal/config"
	"github.com/jacentio/shelf/internal/metrics"
	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/operations"
	"github.com/jacentio/shelf/store"
	"github.com/jacentio/shelf/store/memstore"
)

// App holds the wired components.
type App struct {
	Config       config.Config
	Logger       *zap.Logger
	Metrics      *prometheus.Registry
	Table        *store.Store // nil on the memory backend
	Repositories *library.Repositories
	Service      *operations.Service
	Dispatcher   *dispatch.Dispatcher
}

// New builds an App for cfg.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{Config: cfg, Logger: logger, Metrics: reg}

	var backend store.Gateway
	switch cfg.Backend {
	case config.BackendMemory:
		backend = memstore.New(library.NewRegistry())
	case config.BackendDynamoDB:
		client, err := store.NewClient(ctx, cfg.Client())
		if err != nil {
			return nil, err
		}
		a.Table = store.New(client, cfg.Store(), library.NewRegistry())
		backend = a.Table
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}

	a.Repositories = library.NewRepositories(metrics.NewGateway(backend, reg))
	a.Service = operations.New(a.Repositories)

	routes, err := selectRoutes(a.Service, cfg.Operations)
	if err != nil {
		return nil, err
	}
	a.Dispatcher = dispatch.New(routes...)

	logger.Info("application wired",
		zap.String("backend", cfg.Backend),
		zap.String("operations", cfg.Operations),
		zap.Bool("local", cfg.Local),
		zap.Int("routes", len(routes)),
	)
	return a, nil
}

func selectRoutes(s *operations.Service, set string) ([]dispatch.Route, error) {
	switch set {
	case "", config.OperationsAll:
		return s.Routes(), nil
	case config.OperationsCommands:
		return s.CommandRoutes(), nil
	case config.OperationsQueries:
		return s.QueryRoutes(), nil
	default:
		return nil, fmt.Errorf("app: unknown operations %q", set)
	}
}

// Router returns the chi router serving the CRUD endpoints and the dispatcher.
func (a *App) Router() *chi.Mux {
	return httpapi.NewRouter(httpapi.Options{
		Repositories: a.Repositories,
		Dispatcher:   a.Dispatcher,
		Gatherer:     a.Metrics,
		Logger:       a.Logger,
	})
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
