package web

import (
	"net/http"

	"service-desk/internal/app"
	"service-desk/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createServiceRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	AssignedUser    string          `json:"assigned_user"`
	WarehouseItemID *string         `json:"warehouse_item_id,omitempty"`
}

type updateServiceRequest struct {
	Code            *string          `json:"code,omitempty"`
	Name            *string          `json:"name,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	AssignedUser    *string          `json:"assigned_user,omitempty"`
	WarehouseItemID *string          `json:"warehouse_item_id,omitempty"`
}

// listServices handles GET /api/services (admin: full board).
func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.ListAllServices(r.Context(), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, services)
}

// listMyServices handles GET /api/services/mine — the actor's assignments.
func (h *Handler) listMyServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.ListMyServices(r.Context(), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, services)
}

// createService handles POST /api/services.
func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.CreateService(r.Context(), actor(r), app.CreateServiceRequest{
		Code:            req.Code,
		Name:            req.Name,
		Price:           req.Price,
		AssignedUser:    req.AssignedUser,
		WarehouseItemID: req.WarehouseItemID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, svc)
}

// updateService handles PUT /api/services/{id} — the admin field update,
// including relinks.
func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	var req updateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.UpdateServiceFields(r.Context(), actor(r), chi.URLParam(r, "id"), app.UpdateServiceRequest{
		Code:            req.Code,
		Name:            req.Name,
		Price:           req.Price,
		AssignedUser:    req.AssignedUser,
		WarehouseItemID: req.WarehouseItemID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, svc)
}

// updateServiceStatus handles PATCH /api/services/{id}/status — the only
// mutation open to non-admin assignees.
func (h *Handler) updateServiceStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status core.ServiceStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.svc.UpdateServiceStatus(r.Context(), actor(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, svc)
}

// deleteService handles DELETE /api/services/{id}.
func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteService(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
