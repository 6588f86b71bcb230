package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"nami/internal/core"
)

func date(y int, m time.Month, d int) core.Date {
	return core.NewDate(y, int(m), d)
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{150, "1,50"},
		{123456, "1.234,56"},
		{123456789, "1.234.567,89"},
		{-9900, "-99,00"},
	}
	for _, c := range cases {
		if got := FormatBRL(core.Money{Cents: c.cents}); got != c.want {
			t.Errorf("FormatBRL(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	txs := []core.Transaction{
		{Kind: core.Expense, Amount: core.Money{Cents: 123456}, Category: "Alimentação", Description: "mercado, feira", Date: date(2024, time.March, 5)},
		{Kind: core.Income, Amount: core.Money{Cents: 500000}, Category: "Salário", Date: date(2024, time.March, 1)},
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, txs); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "Data,Tipo,Categoria,Valor,Descrição" {
		t.Fatalf("header wrong: %q", lines[0])
	}
	// The description holds a comma, so the writer must quote the field.
	if !strings.Contains(lines[1], `"mercado, feira"`) {
		t.Errorf("comma field not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], "05/03/2024") || !strings.Contains(lines[1], "Despesa") || !strings.Contains(lines[1], "R$ 1.234,56") {
		t.Errorf("expense record wrong: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Receita") || !strings.Contains(lines[2], "R$ 5.000,00") {
		t.Errorf("income record wrong: %q", lines[2])
	}
}

func TestWriteTransactionsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "Data,Tipo,Categoria,Valor,Descrição" {
		t.Fatalf("empty export should hold only the header, got %q", got)
	}
}

func TestBuildReportSections(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	in := ReportInput{
		Transactions: []core.Transaction{
			{Kind: core.Expense, Amount: core.Money{Cents: 8000}, Category: "Transporte", Date: date(2024, time.March, 9)},
			{Kind: core.Income, Amount: core.Money{Cents: 100000}, Category: "Salário", Date: date(2024, time.March, 1)},
		},
		Budgets: []BudgetLine{
			{Category: "Transporte", Limit: core.Money{Cents: 10000}, Spent: core.Money{Cents: 8000}, Percentage: 80},
		},
		TotalIncome:        core.Money{Cents: 100000},
		TotalExpenses:      core.Money{Cents: 8000},
		Balance:            core.Money{Cents: 92000},
		ExpensesByCategory: map[string]core.Money{"Transporte": {Cents: 8000}},
	}

	rep := BuildReport(in, now)
	if rep.Title != "Relatório Financeiro - Nami" {
		t.Fatalf("title wrong: %q", rep.Title)
	}
	if len(rep.Pages) != 1 {
		t.Fatalf("expected a single page, got %d", len(rep.Pages))
	}

	text := strings.Join(rep.Pages[0].Lines, "\n")
	for _, want := range []string{
		"Data: 10/03/2024",
		"Saldo Atual: R$ 920,00",
		"Total Receitas: R$ 1.000,00",
		"Total Despesas: R$ 80,00",
		"Gastos por Categoria",
		"Transporte: R$ 80,00",
		"Orçamentos",
		"Transporte: Limite R$ 100,00 - Gasto R$ 80,00 (80.0%)",
		"Últimas Transações",
		"09/03/2024 - Despesa - Transporte: R$ 80,00",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n%s", want, text)
		}
	}
}

func TestBuildReportPaginates(t *testing.T) {
	txs := make([]core.Transaction, 0, 30)
	for i := 0; i < 30; i++ {
		txs = append(txs, core.Transaction{
			Kind:     core.Expense,
			Amount:   core.Money{Cents: 100},
			Category: "Outros",
			Date:     date(2024, time.March, 1),
		})
	}
	byCat := make(map[string]core.Money)
	for _, c := range core.ExpenseCategories {
		byCat[c] = core.Money{Cents: 100}
	}
	budgets := make([]BudgetLine, 0, len(core.ExpenseCategories))
	for _, c := range core.ExpenseCategories {
		budgets = append(budgets, BudgetLine{Category: c, Limit: core.Money{Cents: 1000}, Spent: core.Money{Cents: 100}, Percentage: 10})
	}

	rep := BuildReport(ReportInput{
		Transactions:       txs,
		Budgets:            budgets,
		ExpensesByCategory: byCat,
	}, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))

	total := 0
	for i, p := range rep.Pages {
		if p.Number != i+1 {
			t.Fatalf("page %d numbered %d", i, p.Number)
		}
		if len(p.Lines) > linesPerPage {
			t.Fatalf("page %d holds %d lines", p.Number, len(p.Lines))
		}
		total += len(p.Lines)
	}
	// Recent transactions are capped, so the body stays bounded even with
	// many records.
	if total == 0 {
		t.Fatal("report came out empty")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rep := BuildReport(ReportInput{}, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	if len(rep.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(rep.Pages))
	}
	text := strings.Join(rep.Pages[0].Lines, "\n")
	if strings.Contains(text, "Orçamentos") || strings.Contains(text, "Últimas Transações") {
		t.Fatalf("empty input must skip optional sections:\n%s", text)
	}
	if !strings.Contains(text, "Saldo Atual: R$ 0,00") {
		t.Fatalf("summary always present:\n%s", text)
	}
}
