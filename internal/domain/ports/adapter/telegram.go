// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// TelegramBotAdapter delivers plain text to a chat.
// chatID is either a numeric id or an "@channel" username.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID string, text string) error
}
