package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"service-desk/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Authenticated ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)
		r.Get("/api/summary", h.dashboardSummary)

		// Read access to the warehouse is shared: assignees see stock levels
		// when picking items in their views.
		r.Get("/api/items", h.listItems)
		r.Get("/api/items/{id}", h.getItem)

		// Assignees manage their own board: list + status updates. Ownership
		// is checked per-service by the access policy, not by routing.
		r.Get("/api/services/mine", h.listMyServices)
		r.Patch("/api/services/{id}/status", h.updateServiceStatus)

		// ── Admin-only command surface ──────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Post("/api/items", h.createItem)
			r.Put("/api/items/{id}", h.updateItem)
			r.Post("/api/items/{id}/stock", h.adjustStock)
			r.Delete("/api/items/{id}", h.deleteItem)

			r.Get("/api/services", h.listServices)
			r.Post("/api/services", h.createService)
			r.Put("/api/services/{id}", h.updateService)
			r.Delete("/api/services/{id}", h.deleteService)

			r.Get("/api/users", h.listUsers)
			r.Put("/api/users/{email}/approval", h.setUserApproval)

			r.Get("/api/reports/payments", h.paymentsReport)
			r.Post("/api/assistant", h.askAssistant)
		})
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// actor extracts the authenticated actor; RequireAuth guarantees presence.
func actor(r *http.Request) app.Actor {
	claims := authFromContext(r.Context())
	if claims == nil {
		return app.Actor{}
	}
	return claims.Actor()
}

// decodeJSON decodes the request body into v, writing an error response and
// returning false on failure. Oversized bodies (see RequestBodyLimit) get 413.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
