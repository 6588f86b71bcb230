package worker

import (
	"context"
	"fmt"
	"log/slog"

	"nami/internal/amqp"
)

// Notifier is the outbound port for delivering a budget alert to the user.
type Notifier interface {
	NotifyBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// AlertWorker consumes budget alert messages and forwards them to a notifier.
type AlertWorker struct {
	notifier Notifier
}

func NewAlertWorker(notifier Notifier) *AlertWorker {
	return &AlertWorker{notifier: notifier}
}

// HandleAlert processes a single alert message. Returning an error makes the
// consumer nack and requeue the delivery.
func (w *AlertWorker) HandleAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	if w.notifier == nil {
		slog.WarnContext(ctx, "No notifier configured, dropping alert",
			"owner", msg.Owner,
			"category", msg.Category)
		return nil
	}

	if err := w.notifier.NotifyBudgetAlert(ctx, msg); err != nil {
		return fmt.Errorf("notify budget alert: %w", err)
	}

	slog.InfoContext(ctx, "Budget alert delivered",
		"owner", msg.Owner,
		"category", msg.Category,
		"tier", msg.Tier,
		"percentage", msg.Percentage)

	return nil
}
