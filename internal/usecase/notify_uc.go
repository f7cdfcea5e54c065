// File: internal/usecase/notify_uc.go
package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
	"telegram-orderdesk-bot/internal/infra/metrics"
	"telegram-orderdesk-bot/internal/infra/worker"
)

// Notifier renders order-system notifications and delivers them to the
// configured Telegram chat. Delivery is best effort: failures are logged and
// counted, never retried.
type Notifier struct {
	bot    adapter.TelegramBotAdapter
	pool   *worker.Pool
	chatID int64
	log    *zerolog.Logger
}

func NewNotifier(bot adapter.TelegramBotAdapter, pool *worker.Pool, chatID int64, logger *zerolog.Logger) *Notifier {
	l := logger.With().Str("component", "Notifier").Logger()
	return &Notifier{bot: bot, pool: pool, chatID: chatID, log: &l}
}

// Enabled reports whether a notification chat is configured.
func (n *Notifier) Enabled() bool { return n.chatID != 0 }

// Push delivers one notification to the configured chat.
func (n *Notifier) Push(ctx context.Context, notif model.Notification) error {
	if !n.Enabled() {
		n.log.Debug().Str("type", notif.Type).Msg("notification chat not configured, dropping")
		return nil
	}
	if err := n.bot.SendMessage(ctx, n.chatID, notif.Render()); err != nil {
		metrics.IncNotificationsFailed(1)
		n.log.Error().Err(err).Str("type", notif.Type).Msg("notification delivery failed")
		return err
	}
	metrics.IncNotificationsPushed(1)
	n.log.Debug().Str("type", notif.Type).Int("entity_id", notif.EntityID).Msg("notification delivered")
	return nil
}

// PushBatch fans a batch out through the worker pool and returns how many
// deliveries succeeded. One bad notification never blocks the rest.
func (n *Notifier) PushBatch(ctx context.Context, notifs []model.Notification) int {
	if !n.Enabled() || len(notifs) == 0 {
		return 0
	}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, notif := range notifs {
		notif := notif
		wg.Add(1)
		task := func(ctx context.Context) error {
			defer wg.Done()
			if err := n.Push(ctx, notif); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
			return nil
		}
		if n.pool == nil || n.pool.Submit(task) != nil {
			// pool saturated or absent, deliver inline
			_ = task(ctx)
		}
	}
	wg.Wait()
	return ok
}
