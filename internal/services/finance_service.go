package services

import (
	"context"
	"fmt"
	"log/slog"

	"nami/internal/amqp"
	"nami/internal/core"
	"nami/internal/store"
)

// AlertPublisher is the outbound port for budget alerts. The AMQP client is
// the production implementation; a nil publisher disables alerting.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// BudgetStatus pairs a stored budget with its current progress evaluation.
type BudgetStatus struct {
	Budget   core.Budget
	Progress core.Progress
}

// FinanceService orchestrates transaction and budget operations across the
// store and the alert queue.
type FinanceService struct {
	transactions store.TransactionStore
	budgets      store.BudgetStore
	cards        store.CardStore
	alerts       AlertPublisher
}

func NewFinanceService(transactions store.TransactionStore, budgets store.BudgetStore, cards store.CardStore, alerts AlertPublisher) *FinanceService {
	return &FinanceService{
		transactions: transactions,
		budgets:      budgets,
		cards:        cards,
		alerts:       alerts,
	}
}

// CreateTransaction validates and persists a transaction, then re-evaluates
// the affected category's budget. Alert publication is best effort and never
// fails the request.
func (s *FinanceService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.transactions.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if saved.Kind == core.Expense {
		s.alertIfOverThreshold(ctx, saved.Owner, saved.Category)
	}

	return saved, nil
}

// DeleteTransaction removes a transaction owned by owner.
func (s *FinanceService) DeleteTransaction(ctx context.Context, owner, id string) error {
	if err := s.transactions.DeleteTransaction(ctx, owner, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the owner's full snapshot, newest date first.
func (s *FinanceService) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	return s.transactions.ListTransactions(ctx, owner)
}

// CreateBudget validates and persists a budget. The positive-limit check here
// is what lets the progress evaluator skip its own guard.
func (s *FinanceService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	saved, err := s.budgets.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	return saved, nil
}

// UpdateBudgetLimit changes a budget's limit. Non-positive limits are rejected
// before reaching the store.
func (s *FinanceService) UpdateBudgetLimit(ctx context.Context, owner, id string, limit core.Money) (core.Budget, error) {
	if limit.Cents <= 0 {
		return core.Budget{}, core.ErrInvalidLimit
	}
	return s.budgets.UpdateBudgetLimit(ctx, owner, id, limit)
}

// DeleteBudget removes a budget owned by owner.
func (s *FinanceService) DeleteBudget(ctx context.Context, owner, id string) error {
	return s.budgets.DeleteBudget(ctx, owner, id)
}

// ListBudgets returns the owner's budgets.
func (s *FinanceService) ListBudgets(ctx context.Context, owner string) ([]core.Budget, error) {
	return s.budgets.ListBudgets(ctx, owner)
}

// CreateCard validates and persists an attached credit card.
func (s *FinanceService) CreateCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	saved, err := s.cards.CreateCard(ctx, c)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("save credit card: %w", err)
	}
	return saved, nil
}

// ListCards returns the owner's attached cards, newest first.
func (s *FinanceService) ListCards(ctx context.Context, owner string) ([]core.CreditCard, error) {
	return s.cards.ListCards(ctx, owner)
}

// DeleteCard removes a card owned by owner.
func (s *FinanceService) DeleteCard(ctx context.Context, owner, id string) error {
	return s.cards.DeleteCard(ctx, owner, id)
}

// EvaluateBudgets joins the owner's budgets with their current progress,
// computed from the given snapshot. Categories without expenses evaluate
// against a zero spend.
func (s *FinanceService) EvaluateBudgets(ctx context.Context, owner string, txs []core.Transaction) ([]BudgetStatus, error) {
	budgets, err := s.budgets.ListBudgets(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	byCategory := core.ExpensesByCategory(txs)
	statuses := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		statuses[i] = BudgetStatus{
			Budget:   b,
			Progress: core.EvaluateProgress(b.Limit, byCategory[b.Category]),
		}
	}
	return statuses, nil
}

// alertIfOverThreshold recomputes the category's progress from the full owner
// snapshot and publishes an alert when the near or over tier is reached.
func (s *FinanceService) alertIfOverThreshold(ctx context.Context, owner, category string) {
	if s.alerts == nil {
		return
	}

	budgets, err := s.budgets.ListBudgets(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list budgets for alerting", "error", err, "owner", owner)
		return
	}

	var budget *core.Budget
	for i := range budgets {
		if budgets[i].Category == category {
			budget = &budgets[i]
			break
		}
	}
	if budget == nil {
		return // no budget for this category, nothing to alert on
	}

	txs, err := s.transactions.ListTransactions(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions for alerting", "error", err, "owner", owner)
		return
	}

	progress := core.EvaluateProgress(budget.Limit, core.ExpensesByCategory(txs)[category])
	if progress.Tier == core.TierUnder {
		return
	}

	msg := amqp.NewBudgetAlertMessage(owner, category, progress)
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		// Alerting must never fail the transaction that triggered it.
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"error", err,
			"owner", owner,
			"category", category,
			"tier", string(progress.Tier))
	}
}
