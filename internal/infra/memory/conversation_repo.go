// Package memory holds the default, process-local conversation store.
package memory

import (
	"context"
	"sync"
	"time"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo keeps per-room state in a mutex-guarded map. Conversations
// are created lazily on first touch. State is ephemeral; the idle sweeper is
// the only thing that ever removes an entry besides an explicit clear.
type ConversationRepo struct {
	mu         sync.RWMutex
	rooms      map[string]*model.Conversation
	historyCap int
}

func NewConversationRepo(historyCap int) *ConversationRepo {
	if historyCap <= 0 {
		historyCap = 6
	}
	return &ConversationRepo{
		rooms:      make(map[string]*model.Conversation),
		historyCap: historyCap,
	}
}

// get returns the room's conversation, creating it lazily. Callers must hold mu.
func (r *ConversationRepo) get(roomID string) *model.Conversation {
	c, ok := r.rooms[roomID]
	if !ok {
		c = model.NewConversation(roomID)
		r.rooms[roomID] = c
	}
	return c
}

func (r *ConversationRepo) Append(ctx context.Context, roomID, role, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(roomID).Append(role, content, r.historyCap)
	return nil
}

func (r *ConversationRepo) SetAction(ctx context.Context, roomID string, action model.Action, patch map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(roomID).SetAction(action, patch)
	return nil
}

func (r *ConversationRepo) ClearAction(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.get(roomID)
	c.ClearAction()
	c.Touch()
	return nil
}

func (r *ConversationRepo) CurrentAction(ctx context.Context, roomID string) (model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.get(roomID)
	c.Touch()
	return c.CurrentAction, nil
}

func (r *ConversationRepo) CollectedData(ctx context.Context, roomID string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.get(roomID)
	c.Touch()
	out := make(map[string]string, len(c.CollectedData))
	for k, v := range c.CollectedData {
		out[k] = v
	}
	return out, nil
}

func (r *ConversationRepo) HistoryWindow(ctx context.Context, roomID string, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.get(roomID)
	c.Touch()
	recent := c.Recent(limit)
	out := make([]model.Message, len(recent))
	copy(out, recent)
	return out, nil
}

func (r *ConversationRepo) SweepIdle(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.rooms {
		if c.LastActivity.Before(cutoff) {
			delete(r.rooms, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of live conversations (used by tests).
func (r *ConversationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
