// Package notify delivers budget alerts to users over Discord.
package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"nami/internal/amqp"
	"nami/internal/core"
)

// Discord posts budget alerts to a fixed channel.
type Discord struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscord(botToken, channelID string) (*Discord, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create Discord session: %w", err)
	}
	return &Discord{
		session:   session,
		channelID: channelID,
	}, nil
}

// NotifyBudgetAlert sends a formatted alert message to the channel.
func (d *Discord) NotifyBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	if _, err := d.session.ChannelMessageSend(d.channelID, formatAlert(msg)); err != nil {
		return fmt.Errorf("send Discord message: %w", err)
	}
	return nil
}

func (d *Discord) Close() error {
	return d.session.Close()
}

// formatAlert renders the alert in the pt-BR wording the app uses everywhere.
func formatAlert(msg *amqp.BudgetAlertMessage) string {
	spent := float64(msg.SpentCents) / 100
	limit := float64(msg.LimitCents) / 100

	if msg.Tier == string(core.TierOver) {
		// The raw ratio, not the clamped percentage: 120% over reads 120%.
		return fmt.Sprintf("🚨 Orçamento estourado: %s - gasto R$ %.2f de R$ %.2f (%.0f%%)",
			msg.Category, spent, limit, msg.Ratio)
	}
	return fmt.Sprintf("⚠️ Orçamento quase no limite: %s - gasto R$ %.2f de R$ %.2f (%.0f%%)",
		msg.Category, spent, limit, msg.Percentage)
}
