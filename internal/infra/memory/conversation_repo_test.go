// File: internal/infra/memory/conversation_repo_test.go
package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"telegram-orderdesk-bot/internal/domain/model"
)

func TestAppendEvictsOldest(t *testing.T) {
	repo := NewConversationRepo(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Append(ctx, "room", model.RoleUser, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	history, err := repo.HistoryWindow(ctx, "room", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if history[i].Content != want {
			t.Errorf("history[%d] = %q, want %q", i, history[i].Content, want)
		}
	}
}

func TestHistoryWindowLimit(t *testing.T) {
	repo := NewConversationRepo(6)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_ = repo.Append(ctx, "room", model.RoleUser, fmt.Sprintf("msg-%d", i))
	}
	history, _ := repo.HistoryWindow(ctx, "room", 4)
	if len(history) != 4 {
		t.Fatalf("window length = %d, want 4", len(history))
	}
	if history[0].Content != "msg-2" {
		t.Fatalf("window starts at %q, want msg-2", history[0].Content)
	}
}

func TestSetAndClearAction(t *testing.T) {
	repo := NewConversationRepo(6)
	ctx := context.Background()

	err := repo.SetAction(ctx, "room", model.ActionCreateOrder, map[string]string{
		"customerName": "Kevin",
		"rate":         "7",
	})
	if err != nil {
		t.Fatalf("set action: %v", err)
	}
	_ = repo.SetAction(ctx, "room", model.ActionCreateOrder, map[string]string{"fromCurrency": "HKD"})

	action, _ := repo.CurrentAction(ctx, "room")
	if action != model.ActionCreateOrder {
		t.Fatalf("action = %q, want create_order", action)
	}
	data, _ := repo.CollectedData(ctx, "room")
	if data["customerName"] != "Kevin" || data["rate"] != "7" || data["fromCurrency"] != "HKD" {
		t.Fatalf("collected data not merged: %v", data)
	}

	if err := repo.ClearAction(ctx, "room"); err != nil {
		t.Fatalf("clear action: %v", err)
	}
	action, _ = repo.CurrentAction(ctx, "room")
	if action != model.ActionNone {
		t.Fatalf("action after clear = %q, want none", action)
	}
	data, _ = repo.CollectedData(ctx, "room")
	if len(data) != 0 {
		t.Fatalf("collected data after clear = %v, want empty", data)
	}
}

func TestSetActionDropsUnknownKeys(t *testing.T) {
	repo := NewConversationRepo(6)
	ctx := context.Background()

	_ = repo.SetAction(ctx, "room", model.ActionCreateExpense, map[string]string{
		"amount":    "50",
		"handlerId": "3", // not an expense field
	})
	data, _ := repo.CollectedData(ctx, "room")
	if data["amount"] != "50" {
		t.Fatalf("amount missing: %v", data)
	}
	if _, ok := data["handlerId"]; ok {
		t.Fatalf("unexpected key kept: %v", data)
	}
}

func TestSweepIdle(t *testing.T) {
	repo := NewConversationRepo(6)
	ctx := context.Background()

	_ = repo.Append(ctx, "stale", model.RoleUser, "hello")
	_ = repo.Append(ctx, "fresh", model.RoleUser, "hello")

	// Everything is newer than a cutoff in the past.
	n, err := repo.SweepIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("sweep removed %d (err=%v), want 0", n, err)
	}
	if repo.Len() != 2 {
		t.Fatalf("rooms = %d, want 2", repo.Len())
	}

	// Age one room out.
	repo.mu.Lock()
	repo.rooms["stale"].LastActivity = time.Now().Add(-2 * time.Hour)
	repo.mu.Unlock()

	n, err = repo.SweepIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("sweep removed %d (err=%v), want 1", n, err)
	}
	if repo.Len() != 1 {
		t.Fatalf("rooms = %d, want 1", repo.Len())
	}
	if _, ok := repo.rooms["fresh"]; !ok {
		t.Fatal("fresh room was swept")
	}
}

func TestRoomsIsolated(t *testing.T) {
	repo := NewConversationRepo(6)
	ctx := context.Background()

	_ = repo.SetAction(ctx, "a", model.ActionCreateOrder, map[string]string{"customerName": "Kevin"})
	action, _ := repo.CurrentAction(ctx, "b")
	if action != model.ActionNone {
		t.Fatalf("room b action = %q, want none", action)
	}
}
