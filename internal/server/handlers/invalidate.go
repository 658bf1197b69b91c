package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/3leaps/gopurge/internal/errors"
	"github.com/3leaps/gopurge/pkg/invalidation"
	"github.com/3leaps/gopurge/pkg/settings"
	"github.com/3leaps/gopurge/pkg/transport"
)

// InvalidateHandler triggers invalidation submissions.
type InvalidateHandler struct {
	store     settings.Store
	builder   *invalidation.Builder
	submitter transport.Submitter
}

// NewInvalidateHandler creates the handler.
func NewInvalidateHandler(store settings.Store, builder *invalidation.Builder, submitter transport.Submitter) *InvalidateHandler {
	return &InvalidateHandler{store: store, builder: builder, submitter: submitter}
}

// invalidateRequest is the trigger payload. Paths is decoded as []any on
// purpose: triggers forward whatever their host framework collected, and
// non-string entries are dropped during sanitization rather than rejected.
type invalidateRequest struct {
	DistributionID string `json:"distribution_id"`
	Paths          []any  `json:"paths"`
}

// invalidateResponse reports an accepted submission.
type invalidateResponse struct {
	InvalidationID  string   `json:"invalidation_id"`
	DistributionID  string   `json:"distribution_id"`
	CallerReference string   `json:"caller_reference"`
	AuthMode        string   `json:"auth_mode"`
	Paths           []string `json:"paths"`
}

// Post builds and submits one invalidation request. The distribution ID
// and path list fall back to the stored settings when omitted.
func (h *InvalidateHandler) Post(w http.ResponseWriter, r *http.Request) {
	var in invalidateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
				"invalid JSON body", nil)
			return
		}
	}

	current, err := h.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.CodeInternal,
			"failed to load settings", nil)
		return
	}

	distributionID := in.DistributionID
	if distributionID == "" {
		distributionID = current.DistributionID
	}

	paths := in.Paths
	if len(paths) == 0 {
		for _, p := range current.InvalidationPaths {
			paths = append(paths, p)
		}
	}

	req, verr := h.builder.Build(current, distributionID, paths)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	id, err := h.submitter.Submit(r.Context(), req)
	if err != nil {
		h.builder.ReportFailure(req, err)
		writeError(w, transportStatus(err), apperrors.CodeExternalService,
			"invalidation submission failed: "+err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusAccepted, invalidateResponse{
		InvalidationID:  id,
		DistributionID:  req.DistributionID,
		CallerReference: req.CallerReference,
		AuthMode:        string(req.AuthMode),
		Paths:           req.Paths,
	})
}

// transportStatus maps transport sentinels to response codes.
func transportStatus(err error) int {
	switch {
	case errors.Is(err, transport.ErrDistributionNotFound):
		return http.StatusNotFound
	case errors.Is(err, transport.ErrAccessDenied), errors.Is(err, transport.ErrInvalidCredentials):
		return http.StatusForbidden
	case errors.Is(err, transport.ErrTooManyInvalidations):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
