package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/3leaps/gopurge/internal/errors"
	"github.com/3leaps/gopurge/pkg/settings"
)

// SettingsHandler serves settings inspection and submission.
type SettingsHandler struct {
	store     settings.Store
	validator *settings.Validator

	// trustProxyHeader accepts X-Forwarded-Proto as evidence of a secure
	// channel. Only safe behind a TLS-terminating proxy.
	trustProxyHeader bool
}

// NewSettingsHandler creates the handler.
func NewSettingsHandler(store settings.Store, validator *settings.Validator, trustProxyHeader bool) *SettingsHandler {
	return &SettingsHandler{
		store:            store,
		validator:        validator,
		trustProxyHeader: trustProxyHeader,
	}
}

// settingsView is the externally visible settings shape. Ciphertext never
// leaves the process; only the derived stored flag is reported.
type settingsView struct {
	UseIAMRole        bool     `json:"use_iam_role"`
	CredentialsStored bool     `json:"credentials_stored"`
	Region            string   `json:"aws_region"`
	DistributionID    string   `json:"distribution_id"`
	InvalidationPaths []string `json:"invalidation_paths"`
}

func viewOf(s *settings.Settings) settingsView {
	return settingsView{
		UseIAMRole:        s.AmbientMode(),
		CredentialsStored: s.CredentialsStored,
		Region:            s.Region,
		DistributionID:    s.DistributionID,
		InvalidationPaths: s.InvalidationPaths,
	}
}

// Get returns the current settings with secrets elided.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.CodeInternal,
			"failed to load settings", nil)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(current))
}

// submission mirrors the admin form. Pointer fields distinguish omitted
// from empty; the checkbox is a plain bool per checkbox semantics.
type submission struct {
	UseIAMRole        bool    `json:"use_iam_role"`
	AccessKey         *string `json:"aws_access_key"`
	SecretKey         *string `json:"aws_secret_key"`
	Region            *string `json:"aws_region"`
	DistributionID    *string `json:"distribution_id"`
	InvalidationPaths *string `json:"invalidation_paths"`
}

// Post validates and merges one settings submission. Per-field failures do
// not fail the request: offending fields keep their stored values and the
// errors are reported alongside the applied result.
func (h *SettingsHandler) Post(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	current, err := h.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.CodeInternal,
			"failed to load settings", nil)
		return
	}

	updated, fieldErrs := h.validator.Validate(current, in, h.secureChannel(r))

	if err := h.store.Save(updated); err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.CodeInternal,
			"failed to persist settings", nil)
		return
	}

	body := map[string]any{"settings": viewOf(updated)}
	if len(fieldErrs) > 0 {
		body["errors"] = fieldErrorList(fieldErrs)
	}
	writeJSON(w, http.StatusOK, body)
}

// decodeSubmission accepts JSON or form-encoded submissions.
func (h *SettingsHandler) decodeSubmission(w http.ResponseWriter, r *http.Request) (settings.Input, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var sub submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
				"invalid JSON body", nil)
			return settings.Input{}, false
		}
		return settings.Input{
			UseIAMRole:     sub.UseIAMRole,
			AccessKey:      sub.AccessKey,
			SecretKey:      sub.SecretKey,
			Region:         sub.Region,
			DistributionID: sub.DistributionID,
			Paths:          sub.InvalidationPaths,
		}, true
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
			"invalid form body", nil)
		return settings.Input{}, false
	}

	in := settings.Input{
		// Checkbox: any submitted value counts as on, absence as off.
		UseIAMRole: r.PostForm.Has(settings.FieldUseIAMRole),
	}
	if r.PostForm.Has(settings.FieldLegacyAccessKey) {
		v := r.PostForm.Get(settings.FieldLegacyAccessKey)
		in.AccessKey = &v
	}
	if r.PostForm.Has(settings.FieldLegacySecretKey) {
		v := r.PostForm.Get(settings.FieldLegacySecretKey)
		in.SecretKey = &v
	}
	if r.PostForm.Has(settings.FieldRegion) {
		v := r.PostForm.Get(settings.FieldRegion)
		in.Region = &v
	}
	if r.PostForm.Has(settings.FieldDistributionID) {
		v := r.PostForm.Get(settings.FieldDistributionID)
		in.DistributionID = &v
	}
	if r.PostForm.Has(settings.FieldInvalidationPaths) {
		v := r.PostForm.Get(settings.FieldInvalidationPaths)
		in.Paths = &v
	}
	return in, true
}

// secureChannel reports whether the submission arrived over TLS, directly
// or via a trusted TLS-terminating proxy.
func (h *SettingsHandler) secureChannel(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if h.trustProxyHeader && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return false
}
