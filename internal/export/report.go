package export

import (
	"fmt"
	"sort"
	"time"

	"nami/internal/core"
)

// linesPerPage bounds each report page, matching the paginated document the
// web client downloads.
const linesPerPage = 40

type (
	// BudgetLine is a pre-evaluated budget row. The caller computes the
	// progress; the report only formats it.
	BudgetLine struct {
		Category   string
		Limit      core.Money
		Spent      core.Money
		Percentage float64
	}

	// ReportInput is the plain data contract of the report document. All
	// numeric fields arrive final and fully aggregated.
	ReportInput struct {
		Transactions       []core.Transaction
		Budgets            []BudgetLine
		TotalIncome        core.Money
		TotalExpenses      core.Money
		Balance            core.Money
		ExpensesByCategory map[string]core.Money
	}

	Page struct {
		Number int      `json:"number"`
		Lines  []string `json:"lines"`
	}

	Report struct {
		Title       string    `json:"title"`
		GeneratedAt time.Time `json:"generated_at"`
		Pages       []Page    `json:"pages"`
	}
)

// maxReportTransactions caps the recent-transactions section.
const maxReportTransactions = 10

// BuildReport assembles the paginated financial report document.
func BuildReport(in ReportInput, now time.Time) Report {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("Data: %s", now.Format("02/01/2006")),
		"",
		"Resumo Financeiro",
		fmt.Sprintf("Saldo Atual: R$ %s", FormatBRL(in.Balance)),
		fmt.Sprintf("Total Receitas: R$ %s", FormatBRL(in.TotalIncome)),
		fmt.Sprintf("Total Despesas: R$ %s", FormatBRL(in.TotalExpenses)),
	)

	if len(in.ExpensesByCategory) > 0 {
		lines = append(lines, "", "Gastos por Categoria")
		// The mapping is unordered; sort labels for a stable document.
		categories := make([]string, 0, len(in.ExpensesByCategory))
		for c := range in.ExpensesByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			lines = append(lines, fmt.Sprintf("%s: R$ %s", c, FormatBRL(in.ExpensesByCategory[c])))
		}
	}

	if len(in.Budgets) > 0 {
		lines = append(lines, "", "Orçamentos")
		for _, b := range in.Budgets {
			lines = append(lines, fmt.Sprintf("%s: Limite R$ %s - Gasto R$ %s (%.1f%%)",
				b.Category, FormatBRL(b.Limit), FormatBRL(b.Spent), b.Percentage))
		}
	}

	if len(in.Transactions) > 0 {
		lines = append(lines, "", "Últimas Transações")
		recent := in.Transactions
		if len(recent) > maxReportTransactions {
			recent = recent[:maxReportTransactions]
		}
		for _, t := range recent {
			lines = append(lines, fmt.Sprintf("%s - %s - %s: R$ %s",
				t.Date.Format("02/01/2006"), kindLabel(t.Kind), t.Category, FormatBRL(t.Amount)))
		}
	}

	return Report{
		Title:       "Relatório Financeiro - Nami",
		GeneratedAt: now,
		Pages:       paginate(lines),
	}
}

func paginate(lines []string) []Page {
	var pages []Page
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Lines:  lines[start:end],
		})
	}
	if len(pages) == 0 {
		pages = []Page{{Number: 1}}
	}
	return pages
}
