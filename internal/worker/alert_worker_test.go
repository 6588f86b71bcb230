package worker

import (
	"context"
	"errors"
	"testing"

	"nami/internal/amqp"
	"nami/internal/core"
)

type fakeNotifier struct {
	got []*amqp.BudgetAlertMessage
	err error
}

func (f *fakeNotifier) NotifyBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, msg)
	return nil
}

func TestHandleAlertForwardsToNotifier(t *testing.T) {
	n := &fakeNotifier{}
	w := NewAlertWorker(n)

	p := core.EvaluateProgress(core.Money{Cents: 1000}, core.Money{Cents: 1200})
	msg := amqp.NewBudgetAlertMessage("owner-1", "Casa", p)

	if err := w.HandleAlert(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(n.got) != 1 || n.got[0].Category != "Casa" {
		t.Fatalf("notifier did not receive the alert: %+v", n.got)
	}
}

func TestHandleAlertPropagatesNotifierError(t *testing.T) {
	n := &fakeNotifier{err: errors.New("discord down")}
	w := NewAlertWorker(n)

	p := core.EvaluateProgress(core.Money{Cents: 1000}, core.Money{Cents: 900})
	if err := w.HandleAlert(context.Background(), amqp.NewBudgetAlertMessage("owner-1", "Casa", p)); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
}

func TestHandleAlertWithoutNotifierDrops(t *testing.T) {
	w := NewAlertWorker(nil)
	p := core.EvaluateProgress(core.Money{Cents: 1000}, core.Money{Cents: 900})
	if err := w.HandleAlert(context.Background(), amqp.NewBudgetAlertMessage("owner-1", "Casa", p)); err != nil {
		t.Fatalf("missing notifier must not requeue forever: %v", err)
	}
}
