// File: internal/infra/adapters/telegram/real_bot.go
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/application"
	"telegram-orderdesk-bot/internal/config"
	"telegram-orderdesk-bot/internal/infra/logging"
)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, updateWorkers int, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	l := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		log:           &l,
		updateWorkers: updateWorkers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	r.log.Info().Str("bot", r.bot.Self.UserName).Int("workers", r.updateWorkers).Msg("polling started")

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage implements the adapter port. Replies go out without a parse
// mode so reply text with special characters never trips Markdown parsing.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	text := update.Message.Text
	if text == "" {
		return nil
	}

	chatID := update.Message.Chat.ID
	userID := tgUser.ID
	username := tgUser.UserName
	if username == "" {
		username = tgUser.FirstName
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, userID)
	r.log.Info().Int64("chat_id", chatID).Int64("tg_id", userID).Str("username", username).Msg("message received")

	if text == "/start" {
		return r.SendMessage(ctx, chatID, r.facade.WelcomeMessage())
	}
	if text == "/chatid" || text == "/id" || asksForChatID(text) {
		return r.SendMessage(ctx, chatID, r.facade.ChatIDMessage(chatID, userID, username))
	}

	reply := r.facade.HandleMessage(ctx, chatID, userID, text)
	if reply == "" {
		return nil
	}
	return r.SendMessage(ctx, chatID, reply)
}

// asksForChatID catches natural-language requests for the sender's chat id,
// which would otherwise waste a classifier round trip.
func asksForChatID(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "chat id") || strings.Contains(lower, "chatid") || strings.Contains(lower, "telegram id") {
		return true
	}
	return strings.Contains(lower, "my id") && !strings.Contains(lower, "order")
}
