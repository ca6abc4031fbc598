package api

import (
	"encoding/json"
	"errors"
	"net/http"

	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing useful to do when the client is gone
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the sentinel error kinds to HTTP statuses. Unrecognized
// errors are store or internal failures and are never silently swallowed.
func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	writeJSON(w, status, errorResponse{Error: kind, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, coreerrors.ErrInvalidASIN):
		return http.StatusBadRequest, "invalid_identifier"
	case errors.Is(err, coreerrors.ErrInvalidFeedback):
		return http.StatusBadRequest, "invalid_feedback"
	case errors.Is(err, coreerrors.ErrBatchTooLarge):
		return http.StatusBadRequest, "batch_too_large"
	case errors.Is(err, coreerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, coreerrors.ErrProductNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, coreerrors.ErrOptimizationNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, coreerrors.ErrExtractionFailed):
		// treated as a form of not-found: the document was fetched but unusable
		return http.StatusNotFound, "extraction_failed"
	case errors.Is(err, coreerrors.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, coreerrors.ErrBlocked):
		return http.StatusServiceUnavailable, "upstream_blocked"
	case errors.Is(err, coreerrors.ErrUpstreamUnreachable):
		return http.StatusServiceUnavailable, "upstream_unavailable"
	case errors.Is(err, coreerrors.ErrGenerationFailed):
		return http.StatusServiceUnavailable, "generation_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
