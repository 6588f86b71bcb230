package http

import (
	"net/http"
	"time"

	"nami/internal/auth"
	"nami/internal/core"
	"nami/internal/export"
	applog "nami/internal/log"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
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

	txs, err := s.finance.ListTransactions(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transacoes.csv"`)
	if err := export.WriteTransactionsCSV(w, txs); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed",
			applog.FieldError, err,
			applog.FieldOwner, owner)
	}
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
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

	summary := core.Summarize(txs, time.Now())

	budgets := make([]export.BudgetLine, len(statuses))
	for i, st := range statuses {
		budgets[i] = export.BudgetLine{
			Category:   st.Budget.Category,
			Limit:      st.Progress.Limit,
			Spent:      st.Progress.Spent,
			Percentage: st.Progress.Percentage,
		}
	}

	report := export.BuildReport(export.ReportInput{
		Transactions:       txs,
		Budgets:            budgets,
		TotalIncome:        summary.TotalIncome,
		TotalExpenses:      summary.TotalExpenses,
		Balance:            summary.Balance,
		ExpensesByCategory: summary.ExpensesByCategory,
	}, time.Now())

	writeJSON(w, http.StatusOK, report)
}

// handleExportSheets appends the owner's transactions to the configured
// Google spreadsheet. Returns 503 when the exporter is not configured.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing owner")
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.sheets == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export not configured")
		return
	}

	txs, err := s.finance.ListTransactions(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.sheets.AppendTransactions(r.Context(), txs); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Sheets export failed",
			applog.FieldError, err,
			applog.FieldOwner, owner)
		writeError(w, http.StatusBadGateway, "spreadsheet export failed")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Sheets export completed",
		applog.FieldOwner, owner,
		"count", len(txs))
	writeJSON(w, http.StatusOK, map[string]int{"exported": len(txs)})
}
