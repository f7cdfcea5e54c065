// File: internal/usecase/expense_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain"
	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
)

// ExpenseHandler executes resolved expense intents against the order system.
type ExpenseHandler struct {
	client   adapter.OrderSystemClient
	convRepo repository.ConversationRepository
	log      *zerolog.Logger
}

func NewExpenseHandler(client adapter.OrderSystemClient, convRepo repository.ConversationRepository, logger *zerolog.Logger) *ExpenseHandler {
	l := logger.With().Str("component", "ExpenseHandler").Logger()
	return &ExpenseHandler{client: client, convRepo: convRepo, log: &l}
}

func (h *ExpenseHandler) Handle(ctx context.Context, dec model.Decision, fields map[string]string, roomID string) (string, error) {
	switch dec.Action {
	case model.ActionCreateExpense:
		return h.create(ctx, fields, dec.Message, roomID)
	case model.ActionGetExpense:
		return h.details(ctx, fields["expense_id"])
	case model.ActionListExpenses:
		return h.list(ctx, fields)
	}
	if dec.Message != "" {
		return dec.Message, nil
	}
	return "❌ Unknown expense action", nil
}

func (h *ExpenseHandler) create(ctx context.Context, fields map[string]string, conversational, roomID string) (string, error) {
	var missing []string
	for _, f := range []string{"amount", "description"} {
		if fields[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return orEmpty(conversational, "I still need: "+strings.Join(missing, ", ")), nil
	}

	draft := model.ExpenseDraft{
		Amount:       fieldFloat(fields, "amount"),
		CurrencyCode: fields["currencyCode"],
		Description:  fields["description"],
		AccountID:    fieldInt(fields, "accountId"),
		AccountName:  fields["accountName"],
	}

	expense, err := h.client.CreateExpense(ctx, draft)
	if clearErr := h.convRepo.ClearAction(ctx, roomID); clearErr != nil {
		h.log.Error().Err(clearErr).Str("room_id", roomID).Msg("clear action failed")
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`✅ **Great! Expense Recorded Successfully!**

📝 Expense ID: #%d
💰 Amount: %s %s
📄 Description: %s
🏦 Account: %s
📅 Date: %s

Anything else I can help with?`,
		expense.ID,
		fmtAmount(expense.Amount), orEmpty(expense.CurrencyCode, "USD"),
		expense.Description,
		orEmpty(expense.AccountName, "Default"),
		fmtWhen(expense.CreatedAt),
	), nil
}

func (h *ExpenseHandler) details(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return `❌ Please provide an expense ID (e.g., "show expense #45").`, nil
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "❌ Invalid expense ID.", nil
	}
	expense, err := h.client.GetExpense(ctx, id)
	if err != nil {
		return "", err
	}

	reply := fmt.Sprintf(`📋 **Expense #%d Details**

💰 Amount: %s %s
📄 Description: %s
🏦 Account: %s
📅 Created: %s`,
		expense.ID,
		fmtAmount(expense.Amount), orEmpty(expense.CurrencyCode, "USD"),
		expense.Description,
		orEmpty(expense.AccountName, "N/A"),
		fmtWhen(expense.CreatedAt),
	)
	if expense.CreatedByName != "" {
		reply += "\n👤 Created by: " + expense.CreatedByName
	}
	return reply, nil
}

func (h *ExpenseHandler) list(ctx context.Context, fields map[string]string) (string, error) {
	filters := model.ListFilters{}
	for _, k := range []string{"dateRange", "createdBy"} {
		if v := fields[k]; v != "" {
			filters[k] = v
		}
	}
	expenses, err := h.client.ListExpenses(ctx, listFetchLimit, filters)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return "📋 No expenses found.", nil
	}

	total := len(expenses)
	shown := expenses
	if total > listDisplayLimit {
		shown = expenses[:listDisplayLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Expenses** (%d found)\n\n", total)
	for _, expense := range shown {
		account := ""
		if expense.AccountName != "" {
			account = " | 🏦" + expense.AccountName
		}
		creator := ""
		if expense.CreatedByName != "" {
			creator = " | ✍️" + expense.CreatedByName
		}
		fmt.Fprintf(&b, "#%d %s: %s - %s %s%s%s\n",
			expense.ID, fmtShortDate(expense.CreatedAt),
			expense.Description,
			fmtAmount(expense.Amount), orEmpty(expense.CurrencyCode, "USD"),
			account, creator,
		)
	}
	if remaining := total - listDisplayLimit; remaining > 0 {
		fmt.Fprintf(&b, "\n... and %d more expenses.\n", remaining)
		b.WriteString("💡 Tip: Use filters to narrow results")
	}
	return b.String(), nil
}
