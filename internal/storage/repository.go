package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nami/internal/core"
	"nami/internal/store"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateBudget = errors.New("budget already exists for this category")
	ErrDuplicateEmail  = errors.New("email already registered")
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ store.UserStore        = (*SQLiteRepository)(nil)
	_ store.TransactionStore = (*SQLiteRepository)(nil)
	_ store.BudgetStore      = (*SQLiteRepository)(nil)
	_ store.CardStore        = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable. Backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser implements store.UserStore.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash, name string) (store.User, error) {
	u := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return store.User{}, ErrDuplicateEmail
		}
		return store.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID)
	return u, nil
}

// GetUserByEmail implements store.UserStore.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// CreateTransaction implements store.TransactionStore. The store assigns the
// opaque ID and the creation timestamp.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, kind, category, amount_cents, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Owner, string(t.Kind), t.Category, t.Amount.Cents, t.Description,
		t.Date.Format("2006-01-02"), t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"kind", string(t.Kind),
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// ListTransactions implements store.TransactionStore, newest date first with
// creation time as the secondary order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, kind, category, amount_cents, description, date, created_at
		 FROM transactions WHERE owner_id = ?
		 ORDER BY date DESC, created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			kind    string
			dateStr string
		)
		if err := rows.Scan(&t.ID, &t.Owner, &kind, &t.Category, &t.Amount.Cents,
			&t.Description, &dateStr, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		t.Date = core.Date{Time: day}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction implements store.TransactionStore. Owner scoping is part
// of the WHERE clause so no user can delete another owner's record.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// CreateBudget implements store.BudgetStore. The UNIQUE(owner_id, category)
// constraint surfaces as ErrDuplicateBudget.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, owner_id, category, limit_cents, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Owner, b.Category, b.Limit.Cents, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Budget{}, ErrDuplicateBudget
		}
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"budget_id", b.ID,
		"category", b.Category,
		"limit_cents", b.Limit.Cents)

	return b, nil
}

// ListBudgets implements store.BudgetStore, newest first.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, category, limit_cents, created_at
		 FROM budgets WHERE owner_id = ? ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Owner, &b.Category, &b.Limit.Cents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudgetLimit implements store.BudgetStore. Only the limit is mutable;
// category changes would bypass the uniqueness contract.
func (r *SQLiteRepository) UpdateBudgetLimit(ctx context.Context, owner, id string, limit core.Money) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET limit_cents = ? WHERE id = ? AND owner_id = ?`,
		limit.Cents, id, owner)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget rows affected: %w", err)
	}
	if n == 0 {
		return core.Budget{}, ErrNotFound
	}

	var b core.Budget
	err = r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, category, limit_cents, created_at FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.Owner, &b.Category, &b.Limit.Cents, &b.CreatedAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("reload budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget limit updated", "budget_id", id, "limit_cents", limit.Cents)
	return b, nil
}

// DeleteBudget implements store.BudgetStore.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Budget deleted", "budget_id", id)
	return nil
}

// CreateCard implements store.CardStore.
func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_cards (id, owner_id, name, limit_cents, due_date, best_day, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Owner, c.Name, c.Limit.Cents, c.DueDate, c.BestDay, c.CreatedAt)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}

	slog.InfoContext(ctx, "Credit card saved",
		"card_id", c.ID,
		"limit_cents", c.Limit.Cents)

	return c, nil
}

// ListCards implements store.CardStore, newest first.
func (r *SQLiteRepository) ListCards(ctx context.Context, owner string) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, limit_cents, due_date, best_day, created_at
		 FROM credit_cards WHERE owner_id = ? ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	var cards []core.CreditCard
	for rows.Next() {
		var c core.CreditCard
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Limit.Cents,
			&c.DueDate, &c.BestDay, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit cards: %w", err)
	}
	return cards, nil
}

// DeleteCard implements store.CardStore.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM credit_cards WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credit card rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Credit card deleted", "card_id", id)
	return nil
}

// isUniqueViolation matches sqlite's constraint error text; modernc.org/sqlite
// does not export typed constraint errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
