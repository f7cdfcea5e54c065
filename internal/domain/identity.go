package domain

import (
	"fmt"
	"strconv"
)

// SystemUser is one row of the static Telegram-to-order-system mapping.
type SystemUser struct {
	TelegramID int64
	UserID     int
	Name       string
	Email      string
}

// Directory holds the process-lifetime identity mapping and the admin
// allow-list. It is built once at startup and read-only afterwards.
type Directory struct {
	users  map[int64]SystemUser
	admins map[int64]struct{}
}

func NewDirectory(users []SystemUser, adminIDs []int64) *Directory {
	d := &Directory{
		users:  make(map[int64]SystemUser, len(users)),
		admins: make(map[int64]struct{}, len(adminIDs)),
	}
	for _, u := range users {
		d.users[u.TelegramID] = u
	}
	for _, id := range adminIDs {
		d.admins[id] = struct{}{}
	}
	return d
}

// Lookup returns the order-system user mapped to a Telegram sender, if any.
func (d *Directory) Lookup(telegramID int64) (SystemUser, bool) {
	u, ok := d.users[telegramID]
	return u, ok
}

// IsAdmin reports whether the sender may create orders, expenses and transfers.
func (d *Directory) IsAdmin(telegramID int64) bool {
	_, ok := d.admins[telegramID]
	return ok
}

// NonAdminMessage is the fixed rejection template for create attempts by
// unprivileged senders. The blocked capability is named per action.
func NonAdminMessage(action string) string {
	capability := "perform this action"
	switch action {
	case "create_order":
		capability = "create orders"
	case "create_expense":
		capability = "add expenses"
	case "create_transfer":
		capability = "create transfers"
	}
	return fmt.Sprintf("🔒 I'm sorry, but I can only help you view and query data right now.\n\n"+
		"To %s, please use the web system at your convenience.\n\n"+
		"I can still help you:\n"+
		"• Check order status\n"+
		"• List recent orders\n"+
		"• View expenses\n"+
		"• Check transfers\n\n"+
		"What would you like to know?", capability)
}

// ParseID converts a numeric entity id that may arrive as digits in a string.
func ParseID(raw string) (int, error) {
	if raw == "" {
		return 0, ErrInvalidArgument
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", ErrInvalidArgument, raw)
	}
	return id, nil
}
