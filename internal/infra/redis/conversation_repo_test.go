package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"telegram-orderdesk-bot/internal/domain/model"
)

// ---- Fakes ----

type fakeRedis struct {
	store   map[string]string
	ttls    map[string]time.Duration
	expired []string
	deleted []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	f.store[key] = fmt.Sprintf("%s", value)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Expire(_ context.Context, key string, expiration time.Duration) error {
	f.expired = append(f.expired, key)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

// ---- Tests ----

func TestAppendStoresBlobWithTTL(t *testing.T) {
	cli := newFakeRedis()
	repo := NewConversationRepo(cli, 30*time.Minute, 6)
	ctx := context.Background()

	if err := repo.Append(ctx, "r1", model.RoleUser, "hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, ok := cli.store["conversation:r1"]; !ok {
		t.Fatal("conversation blob not stored")
	}
	if got := cli.ttls["conversation:r1"]; got != 30*time.Minute {
		t.Fatalf("ttl = %v, want 30m", got)
	}

	msgs, err := repo.HistoryWindow(ctx, "r1", 4)
	if err != nil {
		t.Fatalf("HistoryWindow: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "hello" {
		t.Fatalf("history = %+v", msgs)
	}
}

func TestCurrentActionRefreshesTTL(t *testing.T) {
	cli := newFakeRedis()
	repo := NewConversationRepo(cli, 30*time.Minute, 6)
	ctx := context.Background()

	if err := repo.SetAction(ctx, "r1", model.ActionCreateOrder, map[string]string{"customerName": "Kevin"}); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	action, err := repo.CurrentAction(ctx, "r1")
	if err != nil {
		t.Fatalf("CurrentAction: %v", err)
	}
	if action != model.ActionCreateOrder {
		t.Fatalf("action = %q", action)
	}
	if len(cli.expired) != 1 || cli.expired[0] != "conversation:r1" {
		t.Fatalf("expire calls = %v, want conversation:r1", cli.expired)
	}
}

func TestCorruptBlobIsDeletedAndRoomStartsFresh(t *testing.T) {
	cli := newFakeRedis()
	cli.store["conversation:r1"] = "{not json"
	repo := NewConversationRepo(cli, 30*time.Minute, 6)
	ctx := context.Background()

	action, err := repo.CurrentAction(ctx, "r1")
	if err != nil {
		t.Fatalf("CurrentAction: %v", err)
	}
	if action != model.ActionNone {
		t.Fatalf("action = %q, want none", action)
	}
	if len(cli.deleted) != 1 || cli.deleted[0] != "conversation:r1" {
		t.Fatalf("del calls = %v, want conversation:r1", cli.deleted)
	}
	if _, ok := cli.store["conversation:r1"]; ok {
		t.Fatal("corrupt blob still present")
	}
}

func TestClearActionKeepsHistory(t *testing.T) {
	cli := newFakeRedis()
	repo := NewConversationRepo(cli, 30*time.Minute, 6)
	ctx := context.Background()

	if err := repo.Append(ctx, "r1", model.RoleUser, "create an order"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.SetAction(ctx, "r1", model.ActionCreateOrder, map[string]string{"rate": "7.8"}); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if err := repo.ClearAction(ctx, "r1"); err != nil {
		t.Fatalf("ClearAction: %v", err)
	}

	action, _ := repo.CurrentAction(ctx, "r1")
	if action != model.ActionNone {
		t.Fatalf("action = %q after clear", action)
	}
	data, _ := repo.CollectedData(ctx, "r1")
	if len(data) != 0 {
		t.Fatalf("collected data survived clear: %v", data)
	}
	msgs, _ := repo.HistoryWindow(ctx, "r1", 4)
	if len(msgs) != 1 {
		t.Fatalf("history lost on clear: %+v", msgs)
	}
}
