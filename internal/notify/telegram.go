// Package notify pings restaurant operators about confirmed reservations.
// Notifications are best-effort: a delivery failure is logged and never
// fails the booking that triggered it.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"reservas/internal/models"
	"reservas/internal/service"
)

// TelegramNotifier sends booking confirmations to configured chat ids.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	logger  *zerolog.Logger
}

// NewTelegram builds a notifier from a bot token and target chats.
func NewTelegram(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, logger: logger}, nil
}

// BookingConfirmed implements service.Notifier.
func (n *TelegramNotifier) BookingConfirmed(_ context.Context, r *models.Restaurant, req *service.BookingRequest, eventID string) {
	text := fmt.Sprintf("Nueva reserva en %s\n%s %s, PAX=%d\n%s", r.Name, req.Date, req.Time, req.Party, req.Name)
	if req.Phone != "" {
		text += "\nTel: " + req.Phone
	}

	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Str("event_id", eventID).Msg("booking notification failed")
		}
	}
}
