// Command shelfctl provisions the library table and runs the local API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacentio/shelf/internal/app"
	"github.com/jacentio/shelf/internal/config"
	"github.com/jacentio/shelf/internal/logging"
	"github.com/jacentio/shelf/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "shelfctl",
		Short:         "Library table and API tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newCreateDatabaseCommand(),
		newDestroyDatabaseCommand(),
		newServeCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shelfctl:", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the application for a subcommand.
func setup(cmd *cobra.Command, backend string) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, logger)
}

func newCreateDatabaseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-database",
		Short: "Create the library table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, config.BackendDynamoDB)
			if err != nil {
				return err
			}
			table := a.Table.Config().TableName
			err = a.Table.CreateTable(cmd.Context())
			switch {
			case errors.Is(err, store.ErrTableExists):
				a.Logger.Warn("table already exists", zap.String("table", table))
			case err != nil:
				return err
			default:
				a.Logger.Info("table created", zap.String("table", table))
			}
			return nil
		},
	}
}

func newDestroyDatabaseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy-database",
		Short: "Delete the library table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, config.BackendDynamoDB)
			if err != nil {
				return err
			}
			table := a.Table.Config().TableName
			err = a.Table.DestroyTable(cmd.Context())
			switch {
			case errors.Is(err, store.ErrTableNotFound):
				a.Logger.Warn("table does not exist", zap.String("table", table))
			case err != nil:
				return err
			default:
				a.Logger.Info("table deleted", zap.String("table", table))
			}
			return nil
		},
	}
}

func newServeCommand() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, backend)
			if err != nil {
				return err
			}
			if err := a.Serve(cmd.Context()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "storage backend (dynamodb or memory); overrides SHELF_BACKEND")
	return cmd
}
