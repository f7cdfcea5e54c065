package model

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents one entry in a room's rolling history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the aggregate for one chat room: the rolling message
// history plus the in-progress action and its collected fields.
type Conversation struct {
	RoomID        string            `json:"room_id"`
	History       []Message         `json:"history"`
	CurrentAction Action            `json:"current_action"`
	CollectedData map[string]string `json:"collected_data"`
	LastActivity  time.Time         `json:"last_activity"`
}

func NewConversation(roomID string) *Conversation {
	return &Conversation{
		RoomID:        roomID,
		History:       make([]Message, 0, 8),
		CollectedData: map[string]string{},
		LastActivity:  time.Now(),
	}
}

// Append adds a message and evicts the oldest entries beyond cap.
func (c *Conversation) Append(role, content string, cap int) {
	c.History = append(c.History, Message{Role: role, Content: content, Timestamp: time.Now()})
	if cap > 0 && len(c.History) > cap {
		c.History = c.History[len(c.History)-cap:]
	}
	c.LastActivity = time.Now()
}

// Recent returns the most recent n history entries in chronological order.
func (c *Conversation) Recent(n int) []Message {
	if n <= 0 || len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// SetAction records the in-progress action and merges the data patch through
// the per-action typed field set. Dropped keys are returned to the caller.
func (c *Conversation) SetAction(action Action, patch map[string]string) []string {
	c.CurrentAction = action
	if c.CollectedData == nil {
		c.CollectedData = map[string]string{}
	}
	dropped := MergeFields(action, c.CollectedData, patch)
	c.LastActivity = time.Now()
	return dropped
}

// ClearAction atomically resets the in-progress action and its data.
func (c *Conversation) ClearAction() {
	c.CurrentAction = ActionNone
	c.CollectedData = map[string]string{}
}

func (c *Conversation) Touch() { c.LastActivity = time.Now() }
