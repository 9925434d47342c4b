package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"service-desk/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the core failure taxonomy to HTTP statuses. A failed
// operation left no partial state behind, so clients re-fetch and retry.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrOutOfStock):
		writeError(w, r, err.Error(), "OUT_OF_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrNegativeStock):
		writeError(w, r, err.Error(), "INVARIANT_VIOLATION", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidStatus):
		writeError(w, r, err.Error(), "INVALID_STATUS", http.StatusBadRequest)
	case errors.Is(err, core.ErrUserNotApproved):
		writeError(w, r, err.Error(), "USER_NOT_APPROVED", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrForbidden):
		writeError(w, r, err.Error(), "FORBIDDEN", http.StatusForbidden)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
