package web

import (
	"net/http"

	"service-desk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type itemRequest struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	StockDelta int             `json:"stock_delta"`
}

// listItems handles GET /api/items.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, items)
}

// getItem handles GET /api/items/{id}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.CreateItem(r.Context(), actor(r), app.CreateItemRequest{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, item)
}

// updateItem handles PUT /api/items/{id} — name/price edit plus an optional
// stock correction delta.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), actor(r), app.UpdateItemRequest{
		ID:         chi.URLParam(r, "id"),
		Name:       req.Name,
		Price:      req.Price,
		StockDelta: req.StockDelta,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// adjustStock handles POST /api/items/{id}/stock with a signed delta.
func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.AdjustStock(r.Context(), actor(r), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// deleteItem handles DELETE /api/items/{id}.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
