// Package server assembles the admin HTTP server: settings management,
// invalidation triggering, and health endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/3leaps/gopurge/internal/config"
	apperrors "github.com/3leaps/gopurge/internal/errors"
	"github.com/3leaps/gopurge/internal/server/handlers"
	"github.com/3leaps/gopurge/internal/server/middleware"
	"github.com/3leaps/gopurge/pkg/invalidation"
	"github.com/3leaps/gopurge/pkg/settings"
	"github.com/3leaps/gopurge/pkg/transport"
)

// Deps are the collaborators the server wires into its handlers.
type Deps struct {
	Store     settings.Store
	Validator *settings.Validator
	Builder   *invalidation.Builder
	Submitter transport.Submitter
	Logger    *zap.Logger
	Version   string
}

// Server is the admin HTTP server.
type Server struct {
	cfg    config.ServerConfig
	router chi.Router
	http   *http.Server
	health *handlers.HealthManager
}

// New builds the server and its route table.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	health := handlers.NewHealthManager(deps.Version)
	health.RegisterChecker("settings_store", handlers.CheckerFunc(func(ctx context.Context) error {
		_, err := deps.Store.Load()
		return err
	}))

	settingsHandler := handlers.NewSettingsHandler(deps.Store, deps.Validator, cfg.TrustProxyHeader)
	invalidateHandler := handlers.NewInvalidateHandler(deps.Store, deps.Builder, deps.Submitter)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestLogger(deps.Logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusNotFound, apperrors.CodeNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, apperrors.CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", health.HealthHandler)
	r.Get("/health/live", health.LiveHandler)
	r.Get("/health/ready", health.ReadyHandler)
	r.Get("/version", health.VersionHandler)

	r.Get("/settings", settingsHandler.Get)
	r.Post("/settings", settingsHandler.Post)
	r.Post("/invalidate", invalidateHandler.Post)

	srv := &Server{
		cfg:    cfg,
		router: r,
		health: health,
	}
	srv.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return srv
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func writeEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apperrors.NewHTTPError(code, message, nil))
}
