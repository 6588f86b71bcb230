package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nami/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nami_test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUserUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "ana@example.com", "hash", "Ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("store must assign an id")
	}

	if _, err := repo.CreateUser(ctx, "ana@example.com", "hash2", "Ana B"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, "ana@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get user: %v (got %+v)", err, got)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, err := repo.CreateUser(ctx, "ana@example.com", "hash", "Ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	older := core.Transaction{
		Owner:    owner.ID,
		Kind:     core.Income,
		Category: "Salário",
		Amount:   core.Money{Cents: 100000},
		Date:     core.NewDate(2024, 1, 5),
	}
	newer := core.Transaction{
		Owner:    owner.ID,
		Kind:     core.Expense,
		Category: "Alimentação",
		Amount:   core.Money{Cents: 5000},
		Date:     core.NewDate(2024, 1, 10),
	}
	if _, err := repo.CreateTransaction(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	saved, err := repo.CreateTransaction(ctx, newer)
	if err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("store must assign id and created_at, got %+v", saved)
	}

	txs, err := repo.ListTransactions(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if !txs[0].Date.After(txs[1].Date.Time) {
		t.Fatalf("list must be newest date first: %v then %v", txs[0].Date, txs[1].Date)
	}
	if txs[0].Amount.Cents != 5000 || txs[0].Kind != core.Expense {
		t.Fatalf("round trip mismatch: %+v", txs[0])
	}

	// Another owner sees nothing and cannot delete across owners.
	other, err := repo.CreateUser(ctx, "bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	otherTxs, err := repo.ListTransactions(ctx, other.ID)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(otherTxs) != 0 {
		t.Fatalf("owner isolation violated: %v", otherTxs)
	}
	if err := repo.DeleteTransaction(ctx, other.ID, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner delete must fail with ErrNotFound, got %v", err)
	}

	if err := repo.DeleteTransaction(ctx, owner.ID, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	txs, err = repo.ListTransactions(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction after delete, got %d", len(txs))
	}
}

func TestCardLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, err := repo.CreateUser(ctx, "ana@example.com", "hash", "Ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	first, err := repo.CreateCard(ctx, core.CreditCard{
		Owner:   owner.ID,
		Name:    "Nubank",
		Limit:   core.Money{Cents: 500000},
		DueDate: 10,
		BestDay: 3,
	})
	if err != nil {
		t.Fatalf("create first card: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("store must assign id and created_at, got %+v", first)
	}

	second, err := repo.CreateCard(ctx, core.CreditCard{
		Owner:   owner.ID,
		Name:    "Itaú",
		Limit:   core.Money{Cents: 300000},
		DueDate: 5,
		BestDay: 28,
	})
	if err != nil {
		t.Fatalf("create second card: %v", err)
	}

	cards, err := repo.ListCards(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].ID != second.ID {
		t.Fatalf("list must be newest first: %+v", cards)
	}
	got := cards[0]
	if got.Name != "Itaú" || got.Limit.Cents != 300000 || got.DueDate != 5 || got.BestDay != 28 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Another owner sees nothing and cannot delete across owners.
	other, err := repo.CreateUser(ctx, "bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	otherCards, err := repo.ListCards(ctx, other.ID)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(otherCards) != 0 {
		t.Fatalf("owner isolation violated: %v", otherCards)
	}
	if err := repo.DeleteCard(ctx, other.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner delete must fail with ErrNotFound, got %v", err)
	}

	if err := repo.DeleteCard(ctx, owner.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteCard(ctx, owner.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
}

func TestBudgetUniquePerCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner, err := repo.CreateUser(ctx, "ana@example.com", "hash", "Ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	b, err := repo.CreateBudget(ctx, core.Budget{
		Owner:    owner.ID,
		Category: "Alimentação",
		Limit:    core.Money{Cents: 50000},
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	_, err = repo.CreateBudget(ctx, core.Budget{
		Owner:    owner.ID,
		Category: "Alimentação",
		Limit:    core.Money{Cents: 90000},
	})
	if !errors.Is(err, ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}

	// Same category for a different owner is fine.
	other, err := repo.CreateUser(ctx, "bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	if _, err := repo.CreateBudget(ctx, core.Budget{
		Owner:    other.ID,
		Category: "Alimentação",
		Limit:    core.Money{Cents: 30000},
	}); err != nil {
		t.Fatalf("same category for another owner should succeed: %v", err)
	}

	updated, err := repo.UpdateBudgetLimit(ctx, owner.ID, b.ID, core.Money{Cents: 75000})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Limit.Cents != 75000 || updated.Category != "Alimentação" {
		t.Fatalf("update mismatch: %+v", updated)
	}

	if err := repo.DeleteBudget(ctx, owner.ID, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteBudget(ctx, owner.ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
}
