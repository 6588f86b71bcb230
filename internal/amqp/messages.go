package amqp

import (
	"encoding/json"
	"time"

	"nami/internal/core"
)

// BudgetAlertMessage is published when a category's spend crosses the near or
// over threshold. It carries the full evaluation so consumers need no store
// access to render a notification.
type BudgetAlertMessage struct {
	Owner      string  `json:"owner"`
	Category   string  `json:"category"`
	LimitCents int64   `json:"limit_cents"`
	SpentCents int64   `json:"spent_cents"`
	Percentage float64 `json:"percentage"`
	// Ratio is the unclamped percentage, so notifications can say how far
	// over the limit the spend really is.
	Ratio     float64   `json:"ratio"`
	Tier      string    `json:"tier"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage builds an alert message from a progress evaluation.
func NewBudgetAlertMessage(owner, category string, p core.Progress) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Owner:      owner,
		Category:   category,
		LimitCents: p.Limit.Cents,
		SpentCents: p.Spent.Cents,
		Percentage: p.Percentage,
		Ratio:      p.Ratio,
		Tier:       string(p.Tier),
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
