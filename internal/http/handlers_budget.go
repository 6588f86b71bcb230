package http

import (
	"net/http"
	"strings"
	"time"

	"nami/internal/auth"
	"nami/internal/core"
	applog "nami/internal/log"
	"nami/internal/services"
)

type (
	createBudgetRequest struct {
		Category string `json:"category"`
		Limit    string `json:"limit"`
	}

	updateBudgetRequest struct {
		Limit string `json:"limit"`
	}

	budgetResponse struct {
		ID         string `json:"id"`
		Category   string `json:"category"`
		LimitCents int64  `json:"limit_cents"`
		CreatedAt  string `json:"created_at"`
	}

	budgetStatusResponse struct {
		ID             string  `json:"id"`
		Category       string  `json:"category"`
		LimitCents     int64   `json:"limit_cents"`
		SpentCents     int64   `json:"spent_cents"`
		RemainingCents int64   `json:"remaining_cents"`
		Percentage     float64 `json:"percentage"`
		Ratio          float64 `json:"ratio"`
		Tier           string  `json:"tier"`
	}
)

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		Category:   b.Category,
		LimitCents: b.Limit.Cents,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func toBudgetStatusResponse(st services.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		ID:             st.Budget.ID,
		Category:       st.Budget.Category,
		LimitCents:     st.Progress.Limit.Cents,
		SpentCents:     st.Progress.Spent.Cents,
		RemainingCents: st.Progress.Remaining.Cents,
		Percentage:     st.Progress.Percentage,
		Ratio:          st.Progress.Ratio,
		Tier:           string(st.Progress.Tier),
	}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listBudgets(w, r, owner)
	case http.MethodPost:
		s.createBudget(w, r, owner)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listBudgets returns each budget joined with its current progress, so the
// client renders consumption without a second round trip.
func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request, owner string) {
	txs, err := s.finance.ListTransactions(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	statuses, err := s.finance.EvaluateBudgets(r.Context(), owner, txs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]budgetStatusResponse, len(statuses))
	for i, st := range statuses {
		out[i] = toBudgetStatusResponse(st)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request, owner string) {
	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Limit))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid limit")
		return
	}

	b := core.Budget{
		Owner:    owner,
		Category: sanitizeInput(req.Category),
		Limit:    core.Money{Cents: cents},
	}

	saved, err := s.finance.CreateBudget(r.Context(), b)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Budget created",
		applog.FieldOwner, owner,
		applog.FieldBudgetID, saved.ID,
		applog.FieldCategory, saved.Category,
		applog.FieldLimitCents, saved.Limit.Cents)
	writeJSON(w, http.StatusCreated, toBudgetResponse(saved))
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateBudget(w, r, owner, id)
	case http.MethodDelete:
		s.deleteBudget(w, r, owner, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request, owner, id string) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Limit))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid limit")
		return
	}

	updated, err := s.finance.UpdateBudgetLimit(r.Context(), owner, id, core.Money{Cents: cents})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Budget updated",
		applog.FieldOwner, owner,
		applog.FieldBudgetID, id,
		applog.FieldLimitCents, updated.Limit.Cents)
	writeJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request, owner, id string) {
	if err := s.finance.DeleteBudget(r.Context(), owner, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Budget deleted",
		applog.FieldOwner, owner,
		applog.FieldBudgetID, id)
	w.WriteHeader(http.StatusNoContent)
}
