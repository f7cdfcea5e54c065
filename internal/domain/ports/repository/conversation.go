package repository

import (
	"context"
	"time"

	"telegram-orderdesk-bot/internal/domain/model"
)

// -----------------------------
// Conversations
// -----------------------------

// ConversationRepository owns per-room conversational state. Conversations
// are created lazily on first touch. Callers serialize turns per room; the
// implementation only has to keep different rooms from blocking each other.
type ConversationRepository interface {
	Append(ctx context.Context, roomID, role, content string) error
	SetAction(ctx context.Context, roomID string, action model.Action, patch map[string]string) error
	ClearAction(ctx context.Context, roomID string) error
	CurrentAction(ctx context.Context, roomID string) (model.Action, error)
	CollectedData(ctx context.Context, roomID string) (map[string]string, error)
	HistoryWindow(ctx context.Context, roomID string, limit int) ([]model.Message, error)
	// SweepIdle removes conversations whose last activity predates cutoff and
	// returns how many were removed.
	SweepIdle(ctx context.Context, cutoff time.Time) (int, error)
}
