package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// listUsers handles GET /api/users.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context(), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, users)
}

// setUserApproval handles PUT /api/users/{email}/approval.
func (h *Handler) setUserApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approved bool `json:"approved"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.SetUserApproval(r.Context(), actor(r), chi.URLParam(r, "email"), req.Approved)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, user)
}
