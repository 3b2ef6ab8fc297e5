// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/log"
)

// APIError is the structured error body every non-2xx response carries.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a reason-coded error onto the HTTP taxonomy: invalid
// input/selection are 400, a missing session 404, an expired one 410, store
// trouble 503, everything else a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reason := domain.ReasonOf(err)
	status := http.StatusInternalServerError
	switch reason {
	case domain.RInvalidInput, domain.RInvalidSelection:
		status = http.StatusBadRequest
	case domain.RSessionNotFound:
		status = http.StatusNotFound
	case domain.RSessionExpired:
		status = http.StatusGone
	case domain.RStoreFailure:
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// unexpected failures must not leak internals
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, APIError{Code: string(reason), Message: msg})
}
