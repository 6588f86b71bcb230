package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tells whether a transaction adds to or subtracts from the balance.
	// Amounts are always non-negative magnitudes; direction comes from Kind.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Owner       string
		Kind        Kind
		Category    string
		Amount      Money
		Description string
		Date        Date
		CreatedAt   time.Time
	}

	Budget struct {
		ID        string
		Owner     string
		Category  string
		Limit     Money
		CreatedAt time.Time
	}

	// CreditCard is an attached card: a label, its total limit, and the two
	// day-of-month markers (statement due date and best purchase day).
	CreditCard struct {
		ID        string
		Owner     string
		Name      string
		Limit     Money
		DueDate   int
		BestDay   int
		CreatedAt time.Time
	}
)

// ExpenseCategories is the closed set accepted for expense-kind transactions.
// Income categories stay free-form. The aggregation functions never consult
// this set; it is enforced at the input boundary only.
var ExpenseCategories = []string{
	"Alimentação",
	"Transporte",
	"Saúde",
	"Educação",
	"Lazer",
	"Casa",
	"Roupas",
	"Tecnologia",
	"Outros",
}

var (
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidLimit    = errors.New("budget limit must be positive")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown expense category")
	ErrEmptyCardName   = errors.New("empty card name")
	ErrInvalidDay      = errors.New("day of month must be between 1 and 31")
)

// ValidExpenseCategory reports whether name belongs to the fixed expense set.
func ValidExpenseCategory(name string) bool {
	for _, c := range ExpenseCategories {
		if c == name {
			return true
		}
	}
	return false
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// NewDate creates a Date at day granularity in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// SameDay reports whether d falls on the same calendar date as t.
// Comparison is by calendar date, not timestamp equality.
func (d Date) SameDay(t time.Time) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether d falls in the same calendar year+month as t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == t.Month()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Kind == Expense && !ValidExpenseCategory(t.Category) {
		return ErrUnknownCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidExpenseCategory(b.Category) {
		return ErrUnknownCategory
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCardName
	}
	if c.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	if c.DueDate < 1 || c.DueDate > 31 {
		return ErrInvalidDay
	}
	if c.BestDay < 1 || c.BestDay > 31 {
		return ErrInvalidDay
	}
	return nil
}
