package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/pkg/credentials"
	"github.com/3leaps/gopurge/pkg/invalidation"
	"github.com/3leaps/gopurge/pkg/secretbox"
	"github.com/3leaps/gopurge/pkg/settings"
)

type fakeStore struct {
	current *settings.Settings
	loadErr error
}

func (f *fakeStore) Load() (*settings.Settings, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.current == nil {
		return settings.Default(), nil
	}
	return f.current.Clone(), nil
}

func (f *fakeStore) Save(s *settings.Settings) error {
	f.current = s.Clone()
	return nil
}

type fakeSubmitter struct{}

func (fakeSubmitter) Submit(context.Context, *invalidation.Request) (string, error) {
	return "IFAKE00000001", nil
}

func newTestServer(t *testing.T, store *fakeStore) *Server {
	t.Helper()
	box := secretbox.New("test-salt")
	resolver := credentials.NewResolver(box,
		credentials.WithEnv(func(string) (string, bool) { return "", false }),
	)
	return New(config.ServerConfig{
		Host:            "localhost",
		Port:            0,
		ShutdownTimeout: time.Second,
	}, Deps{
		Store:     store,
		Validator: settings.NewValidator(box),
		Builder:   invalidation.NewBuilder(resolver, nil),
		Submitter: fakeSubmitter{},
		Version:   "test",
	})
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/version", "", http.StatusOK},
		{http.MethodGet, "/settings", "", http.StatusOK},
		{http.MethodPost, "/invalidate", `{"distribution_id":"E1A2B3C4D5E6F"}`, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/settings", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["error"].(map[string]any)["code"])
}

func TestSettingsRoundTripThroughRouter(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(t, store)

	payload := `{"aws_region": "eu-central-1", "distribution_id": "E1A2B3C4D5E6F"}`
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "eu-central-1", view["aws_region"])
	assert.Equal(t, "E1A2B3C4D5E6F", view["distribution_id"])
}

func TestHealthReflectsStoreFailure(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	store.loadErr = assert.AnError
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDHeaderOnResponses(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAddr(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	assert.Equal(t, "localhost:0", srv.Addr())
}
