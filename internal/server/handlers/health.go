package handlers

import (
	"context"
	"net/http"
	"sync"

	apperrors "github.com/3leaps/gopurge/internal/errors"
)

// Checker reports the health of one dependency.
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

// CheckHealth implements Checker.
func (f CheckerFunc) CheckHealth(ctx context.Context) error {
	return f(ctx)
}

// HealthResponse is the body of a healthy /health response.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// HealthManager aggregates dependency health checks.
type HealthManager struct {
	version string

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHealthManager creates a manager reporting the given version.
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		version:  version,
		checkers: make(map[string]Checker),
	}
}

// RegisterChecker adds a named dependency check.
func (m *HealthManager) RegisterChecker(name string, c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = c
}

// HealthHandler runs all checks. Any failing check yields 503 with the
// per-check results in the error details.
func (m *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	checkers := make(map[string]Checker, len(m.checkers))
	for name, c := range m.checkers {
		checkers[name] = c
	}
	m.mu.RUnlock()

	checks := make(map[string]string, len(checkers))
	healthy := true
	for name, c := range checkers {
		if err := c.CheckHealth(r.Context()); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks[name] = "healthy"
		}
	}

	if !healthy {
		details := make(map[string]any, len(checks))
		for name, status := range checks {
			details[name] = status
		}
		writeError(w, http.StatusServiceUnavailable, apperrors.CodeServiceUnavailable,
			"one or more health checks failed", details)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: m.version,
		Checks:  checks,
	})
}

// LiveHandler always reports alive; it answers "is the process up".
func (m *HealthManager) LiveHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadyHandler is HealthHandler under a readiness route.
func (m *HealthManager) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	m.HealthHandler(w, r)
}

// VersionHandler reports the build version.
func (m *HealthManager) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": m.version})
}
