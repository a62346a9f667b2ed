package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"homework-status-bot/internal/domain/ports/adapter"
	"homework-status-bot/internal/infra/metrics"
)

// Compile-time check
var _ NotifyUseCase = (*notifyUC)(nil)

// Notification kinds, used as a metrics label.
const (
	NotifyKindStatus = "status"
	NotifyKindError  = "error"
)

type NotifyUseCase interface {
	// Send delivers text to the configured chat and reports success.
	// Failures are logged, never returned.
	Send(ctx context.Context, kind, text string) bool
}

type notifyUC struct {
	bot    adapter.TelegramBotAdapter
	chatID string
	log    *zerolog.Logger
}

func NewNotifyUseCase(bot adapter.TelegramBotAdapter, chatID string, logger *zerolog.Logger) NotifyUseCase {
	compLog := logger.With().Str("component", "Notifier").Logger()
	return &notifyUC{bot: bot, chatID: chatID, log: &compLog}
}

func (n *notifyUC) Send(ctx context.Context, kind, text string) bool {
	if err := n.bot.SendMessage(ctx, n.chatID, text); err != nil {
		n.log.Error().Err(err).Str("kind", kind).Msg("failed to send telegram message")
		metrics.IncNotification(kind, "failed")
		return false
	}
	n.log.Debug().Str("kind", kind).Str("text", text).Msg("message successfully sent")
	metrics.IncNotification(kind, "sent")
	return true
}
