// File: internal/application/bot_facade.go
package application

import (
	"context"
	"fmt"
	"strconv"

	"telegram-orderdesk-bot/internal/usecase"
)

// BotFacade is the thin seam between the Telegram transport and the use case
// layer. The transport stays free of dialogue logic; the use cases stay free
// of tgbotapi types.
type BotFacade struct {
	Dialogue *usecase.DialogueOrchestrator
	Notifier *usecase.Notifier
}

func NewBotFacade(dialogue *usecase.DialogueOrchestrator, notifier *usecase.Notifier) *BotFacade {
	return &BotFacade{Dialogue: dialogue, Notifier: notifier}
}

// HandleMessage processes one inbound text message and returns the reply.
func (f *BotFacade) HandleMessage(ctx context.Context, chatID, userID int64, text string) string {
	roomID := strconv.FormatInt(chatID, 10)
	return f.Dialogue.HandleMessage(ctx, roomID, userID, text)
}

// WelcomeMessage is the /start reply.
func (f *BotFacade) WelcomeMessage() string {
	return "👋 Welcome to Order System Bot!\n\nType 'help' to see what I can do for you."
}

// ChatIDMessage renders the sender's identifiers for notification setup.
func (f *BotFacade) ChatIDMessage(chatID, userID int64, username string) string {
	return fmt.Sprintf(`📱 Your Telegram Info:

User ID: %d
Chat ID: %d
Username: %s

💡 Use the Chat ID (%d) in your .env file:
TELEGRAM_NOTIFICATION_CHAT_ID=%d`, userID, chatID, username, chatID, chatID)
}
