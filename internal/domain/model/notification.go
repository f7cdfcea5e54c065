package model

import (
	"strconv"
	"strings"
)

// Notification is the payload the order system POSTs to the webhook receiver.
type Notification struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	EntityType string `json:"entityType,omitempty"`
	EntityID   int    `json:"entityId,omitempty"`
	UserID     int    `json:"userId,omitempty"`
	UserName   string `json:"userName,omitempty"`
}

var notificationIcons = map[string]string{
	"approval_approved":  "✅",
	"approval_rejected":  "❌",
	"approval_pending":   "⏳",
	"order_assigned":     "👤",
	"order_unassigned":   "🔓",
	"order_created":      "📦",
	"order_completed":    "✅",
	"order_cancelled":    "❌",
	"order_deleted":      "🗑️",
	"expense_created":    "💰",
	"expense_deleted":    "🗑️",
	"transfer_created":   "🔄",
	"transfer_deleted":   "🗑️",
	"wallet_incoming":    "📥",
	"wallet_outgoing":    "📤",
	"wallet_transaction": "💳",
}

// Render formats the notification as the plain-text chat message.
func (n Notification) Render() string {
	icon, ok := notificationIcons[n.Type]
	if !ok {
		icon = "🔔"
	}
	var b strings.Builder
	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(n.Title)
	b.WriteString("\n")
	b.WriteString(n.Message)
	if n.EntityType != "" && n.EntityID != 0 {
		b.WriteString("\n🔗 ")
		b.WriteString(n.EntityType)
		b.WriteString(" #")
		b.WriteString(strconv.Itoa(n.EntityID))
	}
	if n.UserName != "" {
		b.WriteString("\n👤 ")
		b.WriteString(n.UserName)
	}
	return b.String()
}
