package http

import (
	"net/http"
	"time"

	"nami/internal/auth"
	"nami/internal/core"
	applog "nami/internal/log"
)

type (
	categoryAmountResponse struct {
		Category    string `json:"category"`
		AmountCents int64  `json:"amount_cents"`
	}

	seriesPointResponse struct {
		Label         string `json:"label"`
		IncomeCents   int64  `json:"income_cents"`
		ExpensesCents int64  `json:"expenses_cents"`
		BalanceCents  int64  `json:"balance_cents"`
	}

	dashboardResponse struct {
		TotalIncomeCents   int64                  `json:"total_income_cents"`
		TotalExpensesCents int64                  `json:"total_expenses_cents"`
		BalanceCents       int64                  `json:"balance_cents"`
		ExpensesByCategory map[string]int64       `json:"expenses_by_category"`
		TodayCount         int                    `json:"today_count"`
		MonthCount         int                    `json:"month_count"`
		HighestExpense     categoryAmountResponse `json:"highest_expense"`
		Series             []seriesPointResponse  `json:"series"`
		Budgets            []budgetStatusResponse `json:"budgets"`
	}
)

// handleDashboard serves the full summary for the authenticated owner. The
// response is cached per owner and recomputed from the current snapshot after
// every mutation.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, found := s.dashCache.Get(owner); found {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard cache hit",
			applog.FieldOwner, owner)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	resp, err := s.buildDashboard(r, owner, time.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.dashCache.Set(owner, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(r *http.Request, owner string, now time.Time) (dashboardResponse, error) {
	txs, err := s.finance.ListTransactions(r.Context(), owner)
	if err != nil {
		return dashboardResponse{}, err
	}

	summary := core.Summarize(txs, now)

	statuses, err := s.finance.EvaluateBudgets(r.Context(), owner, txs)
	if err != nil {
		return dashboardResponse{}, err
	}

	byCategory := make(map[string]int64, len(summary.ExpensesByCategory))
	for category, amount := range summary.ExpensesByCategory {
		byCategory[category] = amount.Cents
	}

	series := make([]seriesPointResponse, len(summary.Series))
	for i, p := range summary.Series {
		series[i] = seriesPointResponse{
			Label:         p.Label,
			IncomeCents:   p.Income.Cents,
			ExpensesCents: p.Expenses.Cents,
			BalanceCents:  p.Balance.Cents,
		}
	}

	budgets := make([]budgetStatusResponse, len(statuses))
	for i, st := range statuses {
		budgets[i] = toBudgetStatusResponse(st)
	}

	return dashboardResponse{
		TotalIncomeCents:   summary.TotalIncome.Cents,
		TotalExpensesCents: summary.TotalExpenses.Cents,
		BalanceCents:       summary.Balance.Cents,
		ExpensesByCategory: byCategory,
		TodayCount:         summary.TodayCount,
		MonthCount:         summary.MonthCount,
		HighestExpense: categoryAmountResponse{
			Category:    summary.HighestExpense.Category,
			AmountCents: summary.HighestExpense.Amount.Cents,
		},
		Series:  series,
		Budgets: budgets,
	}, nil
}
