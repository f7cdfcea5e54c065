// File: internal/infra/sched/sweeper.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain/ports/repository"
	"telegram-orderdesk-bot/internal/infra/metrics"
)

// IdleSweeper periodically evicts conversations idle past the TTL.
type IdleSweeper struct {
	interval time.Duration
	ttl      time.Duration
	convRepo repository.ConversationRepository
	log      *zerolog.Logger
}

func NewIdleSweeper(interval, ttl time.Duration, convRepo repository.ConversationRepository, logger *zerolog.Logger) *IdleSweeper {
	sweepLog := logger.With().Str("component", "IdleSweeper").Logger()
	return &IdleSweeper{
		interval: interval,
		ttl:      ttl,
		convRepo: convRepo,
		log:      &sweepLog,
	}
}

func (w *IdleSweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("ttl", w.ttl).Msg("Starting idle sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping idle sweeper")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.convRepo.SweepIdle(ctx, time.Now().Add(-w.ttl))
			if err != nil {
				w.log.Error().Err(err).Msg("idle sweep error")
			}
			if n > 0 {
				metrics.IncConversationsSwept(n)
				w.log.Info().Int("count", n).Msg("idle conversations swept")
			}
		}
	}
}
