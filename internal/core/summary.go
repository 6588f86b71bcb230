package core

import (
	"fmt"
	"time"
)

// SeriesLength is the number of trailing months in the dashboard series.
const SeriesLength = 6

// NoExpenseCategory is the sentinel category returned by HighestExpense when
// the collection contains no expense-kind transactions.
const NoExpenseCategory = "Nenhum"

type (
	// CategoryAmount pairs a category name with an aggregated amount.
	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// MonthPoint is one entry of the trailing monthly series.
	MonthPoint struct {
		Label    string
		Income   Money
		Expenses Money
		Balance  Money
	}

	// Summary bundles every derived statistic the dashboard consumes.
	// It is recomputed in full from the current snapshot on every call.
	Summary struct {
		TotalIncome        Money
		TotalExpenses      Money
		Balance            Money
		ExpensesByCategory map[string]Money
		TodayCount         int
		MonthCount         int
		HighestExpense     CategoryAmount
		Series             []MonthPoint
	}
)

// shortMonths are Portuguese short month names used for series labels.
var shortMonths = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// TotalByKind sums the amounts of all transactions of the given kind.
// An empty collection yields zero.
func TotalByKind(txs []Transaction, kind Kind) Money {
	var total Money
	for _, t := range txs {
		if t.Kind == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Balance returns total income minus total expenses. May be negative.
func Balance(txs []Transaction) Money {
	return TotalByKind(txs, Income).Sub(TotalByKind(txs, Expense))
}

// ExpensesByCategory maps each category to its summed expense amount.
// Only expense-kind transactions contribute; categories with no expenses are
// absent from the map. Iteration order is unspecified.
func ExpensesByCategory(txs []Transaction) map[string]Money {
	byCategory := make(map[string]Money)
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}
	return byCategory
}

// CountOnDay counts transactions dated on now's calendar date.
func CountOnDay(txs []Transaction, now time.Time) int {
	n := 0
	for _, t := range txs {
		if t.Date.SameDay(now) {
			n++
		}
	}
	return n
}

// CountInMonth counts transactions dated in now's calendar year+month.
func CountInMonth(txs []Transaction, now time.Time) int {
	n := 0
	for _, t := range txs {
		if t.Date.SameMonth(now) {
			n++
		}
	}
	return n
}

// HighestExpense returns the expense transaction with the maximum amount as
// a CategoryAmount. On ties the first occurrence in input order wins; this is
// a linear reduction, not a sort. With no expenses it returns the sentinel
// {0, NoExpenseCategory}.
func HighestExpense(txs []Transaction) CategoryAmount {
	max := CategoryAmount{Category: NoExpenseCategory}
	found := false
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		if !found || t.Amount.Cents > max.Amount.Cents {
			max = CategoryAmount{Category: t.Category, Amount: t.Amount}
			found = true
		}
	}
	return max
}

// MonthlySeries builds the trailing monthly series ending at now's month.
// The result always has exactly SeriesLength points, oldest first; months
// without transactions carry zero sums. Each point is anchored to the first
// day of its month so end-of-month dates cannot skew the window.
func MonthlySeries(txs []Transaction, now time.Time) []MonthPoint {
	series := make([]MonthPoint, 0, SeriesLength)
	for i := SeriesLength - 1; i >= 0; i-- {
		anchor := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())

		var income, expenses Money
		for _, t := range txs {
			if !t.Date.SameMonth(anchor) {
				continue
			}
			switch t.Kind {
			case Income:
				income = income.Add(t.Amount)
			case Expense:
				expenses = expenses.Add(t.Amount)
			}
		}

		series = append(series, MonthPoint{
			Label:    monthLabel(anchor),
			Income:   income,
			Expenses: expenses,
			Balance:  income.Sub(expenses),
		})
	}
	return series
}

// monthLabel formats an anchor date as "jan/24".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s/%02d", shortMonths[int(t.Month())-1], t.Year()%100)
}

// Summarize derives every dashboard statistic from the snapshot in one pass
// over the public aggregation functions.
func Summarize(txs []Transaction, now time.Time) Summary {
	income := TotalByKind(txs, Income)
	expenses := TotalByKind(txs, Expense)
	return Summary{
		TotalIncome:        income,
		TotalExpenses:      expenses,
		Balance:            income.Sub(expenses),
		ExpensesByCategory: ExpensesByCategory(txs),
		TodayCount:         CountOnDay(txs, now),
		MonthCount:         CountInMonth(txs, now),
		HighestExpense:     HighestExpense(txs),
		Series:             MonthlySeries(txs, now),
	}
}
