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
	createCardRequest struct {
		Name    string `json:"name"`
		Limit   string `json:"limit"`
		DueDate int    `json:"due_date"`
		BestDay int    `json:"best_day"`
	}

	cardResponse struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		LimitCents int64  `json:"limit_cents"`
		DueDate    int    `json:"due_date"`
		BestDay    int    `json:"best_day"`
		CreatedAt  string `json:"created_at"`
	}
)

func toCardResponse(c core.CreditCard) cardResponse {
	return cardResponse{
		ID:         c.ID,
		Name:       c.Name,
		LimitCents: c.Limit.Cents,
		DueDate:    c.DueDate,
		BestDay:    c.BestDay,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listCards(w, r, owner)
	case http.MethodPost:
		s.createCard(w, r, owner)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request, owner string) {
	cards, err := s.finance.ListCards(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]cardResponse, len(cards))
	for i, c := range cards {
		out[i] = toCardResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request, owner string) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Limit))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid limit")
		return
	}

	c := core.CreditCard{
		Owner:   owner,
		Name:    sanitizeInput(req.Name),
		Limit:   core.Money{Cents: cents},
		DueDate: req.DueDate,
		BestDay: req.BestDay,
	}

	saved, err := s.finance.CreateCard(r.Context(), c)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Credit card created",
		applog.FieldOwner, owner,
		applog.FieldCardID, saved.ID,
		applog.FieldLimitCents, saved.Limit.Cents)
	writeJSON(w, http.StatusCreated, toCardResponse(saved))
}

func (s *Server) handleCardByID(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/cards/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.finance.DeleteCard(r.Context(), owner, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Credit card deleted",
		applog.FieldOwner, owner,
		applog.FieldCardID, id)
	w.WriteHeader(http.StatusNoContent)
}
