package store

import (
	"context"

	"nami/internal/core"
)

// Ports the HTTP and service layers consume. The SQLite repository is the
// production implementation; tests use in-memory fakes.
type (
	UserStore interface {
		CreateUser(ctx context.Context, email, passwordHash, name string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// ListTransactions returns the owner's full snapshot, newest date first.
		ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, owner, id string) error
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context, owner string) ([]core.Budget, error)
		UpdateBudgetLimit(ctx context.Context, owner, id string, limit core.Money) (core.Budget, error)
		DeleteBudget(ctx context.Context, owner, id string) error
	}

	CardStore interface {
		CreateCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
		// ListCards returns the owner's cards, newest first.
		ListCards(ctx context.Context, owner string) ([]core.CreditCard, error)
		DeleteCard(ctx context.Context, owner, id string) error
	}
)

// User is the stored account record. The password hash never leaves this
// layer except for login verification.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
}
