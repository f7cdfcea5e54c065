package redis

import (
	"context"
	"encoding/json"
	"time"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo stores each room's conversation as one JSON blob with a
// TTL. The TTL doubles as the idle expiry, so SweepIdle has nothing to do;
// reads refresh it so a room stays alive for as long as it is touched.
// Read-modify-write is unsynchronized here; turn serialization per room is
// the orchestrator's job.
type ConversationRepo struct {
	client     RedisClient
	ttl        time.Duration
	historyCap int
}

func NewConversationRepo(client RedisClient, ttl time.Duration, historyCap int) *ConversationRepo {
	if historyCap <= 0 {
		historyCap = 6
	}
	return &ConversationRepo{client: client, ttl: ttl, historyCap: historyCap}
}

func key(roomID string) string { return "conversation:" + roomID }

func (r *ConversationRepo) load(ctx context.Context, roomID string) (*model.Conversation, error) {
	data, err := r.client.Get(ctx, key(roomID))
	if err != nil {
		if IsNil(err) {
			return model.NewConversation(roomID), nil
		}
		return nil, err
	}
	var c model.Conversation
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		// A corrupt blob is unrecoverable state; drop it and start fresh.
		_ = r.client.Del(ctx, key(roomID))
		return model.NewConversation(roomID), nil
	}
	if c.CollectedData == nil {
		c.CollectedData = map[string]string{}
	}
	return &c, nil
}

func (r *ConversationRepo) store(ctx context.Context, c *model.Conversation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(c.RoomID), data, r.ttl)
}

func (r *ConversationRepo) Append(ctx context.Context, roomID, role, content string) error {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return err
	}
	c.Append(role, content, r.historyCap)
	return r.store(ctx, c)
}

func (r *ConversationRepo) SetAction(ctx context.Context, roomID string, action model.Action, patch map[string]string) error {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return err
	}
	c.SetAction(action, patch)
	return r.store(ctx, c)
}

func (r *ConversationRepo) ClearAction(ctx context.Context, roomID string) error {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return err
	}
	c.ClearAction()
	c.Touch()
	return r.store(ctx, c)
}

func (r *ConversationRepo) CurrentAction(ctx context.Context, roomID string) (model.Action, error) {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return model.ActionNone, err
	}
	// First read of every turn; refreshing here keeps an active room from
	// expiring mid-collection even when a later write fails.
	_ = r.client.Expire(ctx, key(roomID), r.ttl)
	return c.CurrentAction, nil
}

func (r *ConversationRepo) CollectedData(ctx context.Context, roomID string) (map[string]string, error) {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return c.CollectedData, nil
}

func (r *ConversationRepo) HistoryWindow(ctx context.Context, roomID string, limit int) ([]model.Message, error) {
	c, err := r.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return c.Recent(limit), nil
}

// SweepIdle is a no-op: key TTLs expire idle conversations server-side.
func (r *ConversationRepo) SweepIdle(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}
