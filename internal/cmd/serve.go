package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/internal/observability"
	"github.com/3leaps/gopurge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP server",
	Long: `Run the admin HTTP server exposing settings management,
invalidation triggering, and health endpoints.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	logger := observability.CLILogger
	cfg := config.GetConfig()
	core := buildCore(cfg)

	current, err := core.store.Load()
	if err != nil {
		ExitWithCode(logger, foundry.ExitFileReadError, "failed to load settings", err)
	}

	srv := server.New(cfg.Server, server.Deps{
		Store:     core.store,
		Validator: core.validator,
		Builder:   core.builder,
		Submitter: newTransport(current),
		Logger:    logger,
		Version:   Version,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin server listening", zap.String("addr", srv.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "server failed", err)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := srv.Shutdown(context.Background()); err != nil {
			ExitWithCode(logger, foundry.ExitSignalInt, "shutdown failed", err)
		}
	}
}
