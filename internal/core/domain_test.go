package core

import (
	"testing"
	"time"
)

func TestDateSameDay(t *testing.T) {
	d := NewDate(2024, 2, 15)
	cases := []struct {
		now  time.Time
		want bool
	}{
		{time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 2, 15, 23, 59, 59, 0, time.UTC), true}, // time of day irrelevant
		{time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), false},
	}
	for i, tc := range cases {
		if got := d.SameDay(tc.now); got != tc.want {
			t.Fatalf("case %d: SameDay(%v) = %v, want %v", i, tc.now, got, tc.want)
		}
	}
}

func TestDateSameMonth(t *testing.T) {
	d := NewDate(2024, 2, 1)
	if !d.SameMonth(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)) {
		t.Fatal("expected same month")
	}
	if d.SameMonth(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("different year must not match")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:     Expense,
		Category: "Alimentação",
		Amount:   Money{Cents: 5000},
		Date:     NewDate(2024, 1, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	incomeFreeForm := Transaction{
		Kind:     Income,
		Category: "Salário",
		Amount:   Money{Cents: 100000},
		Date:     NewDate(2024, 1, 5),
	}
	if err := incomeFreeForm.Validate(); err != nil {
		t.Fatalf("income categories are free-form, got %v", err)
	}

	bads := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"bad kind", Transaction{Kind: "transfer", Category: "Casa", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1)}, ErrInvalidKind},
		{"zero date", Transaction{Kind: Expense, Category: "Casa", Amount: Money{Cents: 1}}, nil},
		{"empty category", Transaction{Kind: Expense, Category: " ", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1)}, ErrEmptyCategory},
		{"unknown expense category", Transaction{Kind: Expense, Category: "Viagens", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1)}, ErrUnknownCategory},
		{"zero amount", Transaction{Kind: Expense, Category: "Casa", Amount: Money{}, Date: NewDate(2024, 1, 1)}, ErrInvalidAmount},
	}
	for _, tc := range bads {
		err := tc.tx.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.want != nil && err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Transporte", Limit: Money{Cents: 50000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "Transporte", Limit: Money{Cents: 0}}).Validate(); err != ErrInvalidLimit {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if err := (Budget{Category: "Transporte", Limit: Money{Cents: -100}}).Validate(); err != ErrInvalidLimit {
		t.Fatalf("expected ErrInvalidLimit for negative, got %v", err)
	}
	if err := (Budget{Category: "Foo", Limit: Money{Cents: 100}}).Validate(); err != ErrUnknownCategory {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCreditCardValidate(t *testing.T) {
	good := CreditCard{Name: "Nubank", Limit: Money{Cents: 500000}, DueDate: 10, BestDay: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		card CreditCard
		want error
	}{
		{"empty name", CreditCard{Name: "  ", Limit: Money{Cents: 1}, DueDate: 1, BestDay: 1}, ErrEmptyCardName},
		{"zero limit", CreditCard{Name: "Nubank", Limit: Money{}, DueDate: 1, BestDay: 1}, ErrInvalidLimit},
		{"due date too low", CreditCard{Name: "Nubank", Limit: Money{Cents: 1}, DueDate: 0, BestDay: 1}, ErrInvalidDay},
		{"due date too high", CreditCard{Name: "Nubank", Limit: Money{Cents: 1}, DueDate: 32, BestDay: 1}, ErrInvalidDay},
		{"best day too low", CreditCard{Name: "Nubank", Limit: Money{Cents: 1}, DueDate: 1, BestDay: 0}, ErrInvalidDay},
		{"best day too high", CreditCard{Name: "Nubank", Limit: Money{Cents: 1}, DueDate: 1, BestDay: 32}, ErrInvalidDay},
	}
	for _, tc := range bads {
		if err := tc.card.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidExpenseCategory(t *testing.T) {
	for _, c := range ExpenseCategories {
		if !ValidExpenseCategory(c) {
			t.Fatalf("%q should be valid", c)
		}
	}
	if ValidExpenseCategory("alimentação") {
		t.Fatal("match is case sensitive")
	}
}
