// Package handlers implements the admin HTTP endpoints: settings
// inspection and submission, invalidation triggering, health, and version.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/3leaps/gopurge/internal/errors"
	"github.com/3leaps/gopurge/pkg/validation"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, apperrors.NewHTTPError(code, message, details))
}

// writeValidationError maps a path/build validation failure to a 422
// response carrying the machine-readable code.
func writeValidationError(w http.ResponseWriter, verr *validation.Error) {
	details := map[string]any{"code": string(verr.Code)}
	if verr.Field != "" {
		details["field"] = verr.Field
	}
	writeError(w, http.StatusUnprocessableEntity, apperrors.CodeValidationFailed, verr.Message, details)
}

// fieldErrorList renders settings validation errors for the response body.
func fieldErrorList(errs []*validation.Error) []map[string]any {
	out := make([]map[string]any, 0, len(errs))
	for _, e := range errs {
		entry := map[string]any{
			"code":    string(e.Code),
			"message": e.Message,
		}
		if e.Field != "" {
			entry["field"] = e.Field
		}
		out = append(out, entry)
	}
	return out
}
