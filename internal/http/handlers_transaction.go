package http

import (
	"net/http"
	"strings"
	"time"

	"nami/internal/auth"
	"nami/internal/core"
	applog "nami/internal/log"
)

type (
	createTransactionRequest struct {
		Kind        string `json:"kind"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}

	transactionResponse struct {
		ID          string `json:"id"`
		Kind        string `json:"kind"`
		Category    string `json:"category"`
		AmountCents int64  `json:"amount_cents"`
		Description string `json:"description,omitempty"`
		Date        string `json:"date"`
		CreatedAt   string `json:"created_at"`
	}
)

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r, owner)
	case http.MethodPost:
		s.createTransaction(w, r, owner)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request, owner string) {
	txs, err := s.finance.ListTransactions(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]transactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := parseDate(req.Date, time.Now())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	t := core.Transaction{
		Owner:       owner,
		Kind:        core.Kind(strings.TrimSpace(req.Kind)),
		Category:    sanitizeInput(req.Category),
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
		Date:        date,
	}

	saved, err := s.finance.CreateTransaction(r.Context(), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.FieldOwner, owner,
		applog.FieldTransactionID, saved.ID,
		applog.FieldKind, string(saved.Kind),
		applog.FieldCategory, saved.Category,
		applog.FieldAmountCents, saved.Amount.Cents)
	writeJSON(w, http.StatusCreated, toTransactionResponse(saved))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.finance.DeleteTransaction(r.Context(), owner, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		applog.FieldOwner, owner,
		applog.FieldTransactionID, id)
	w.WriteHeader(http.StatusNoContent)
}
