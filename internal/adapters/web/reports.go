package web

import "net/http"

// paymentsReport handles GET /api/reports/payments — completed services and
// their revenue total.
func (h *Handler) paymentsReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetPaymentsReport(r.Context(), actor(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// dashboardSummary handles GET /api/summary.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDashboardSummary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// askAssistant handles POST /api/assistant — an operational question routed
// through the read-tool agent.
func (h *Handler) askAssistant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	answer, err := h.svc.AskAssistant(r.Context(), actor(r), req.Question)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	type response struct {
		Answer string `json:"answer"`
	}
	writeJSON(w, response{Answer: answer})
}
