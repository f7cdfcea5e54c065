// File: internal/usecase/transfer_uc.go
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

// TransferHandler executes resolved internal-transfer intents.
type TransferHandler struct {
	client   adapter.OrderSystemClient
	convRepo repository.ConversationRepository
	log      *zerolog.Logger
}

func NewTransferHandler(client adapter.OrderSystemClient, convRepo repository.ConversationRepository, logger *zerolog.Logger) *TransferHandler {
	l := logger.With().Str("component", "TransferHandler").Logger()
	return &TransferHandler{client: client, convRepo: convRepo, log: &l}
}

func (h *TransferHandler) Handle(ctx context.Context, dec model.Decision, fields map[string]string, roomID string) (string, error) {
	switch dec.Action {
	case model.ActionCreateTransfer:
		return h.create(ctx, fields, dec.Message, roomID)
	case model.ActionGetTransfer:
		return h.details(ctx, fields["transfer_id"])
	case model.ActionListTransfers:
		return h.list(ctx, fields)
	}
	if dec.Message != "" {
		return dec.Message, nil
	}
	return "❌ Unknown transfer action", nil
}

func (h *TransferHandler) create(ctx context.Context, fields map[string]string, conversational, roomID string) (string, error) {
	if fields["amount"] == "" {
		return orEmpty(conversational, "How much would you like to transfer?"), nil
	}
	if fields["fromAccountName"] == "" && fields["fromAccountId"] == "" {
		return orEmpty(conversational, "Which account should I transfer from?"), nil
	}
	if fields["toAccountName"] == "" && fields["toAccountId"] == "" {
		return orEmpty(conversational, "Which account should I transfer to?"), nil
	}

	draft := model.TransferDraft{
		Amount:          fieldFloat(fields, "amount"),
		CurrencyCode:    fields["currencyCode"],
		Description:     fields["description"],
		FromAccountID:   fieldInt(fields, "fromAccountId"),
		FromAccountName: fields["fromAccountName"],
		ToAccountID:     fieldInt(fields, "toAccountId"),
		ToAccountName:   fields["toAccountName"],
	}

	transfer, err := h.client.CreateTransfer(ctx, draft)
	if clearErr := h.convRepo.ClearAction(ctx, roomID); clearErr != nil {
		h.log.Error().Err(clearErr).Str("room_id", roomID).Msg("clear action failed")
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `✅ **Perfect! Transfer Created Successfully!**

📝 Transfer ID: #%d
💰 Amount: %s %s
📤 From: %s
📥 To: %s`,
		transfer.ID,
		fmtAmount(transfer.Amount), orEmpty(transfer.CurrencyCode, "USD"),
		accountLabel(transfer.FromAccountName, transfer.FromAccountID),
		accountLabel(transfer.ToAccountName, transfer.ToAccountID),
	)
	if transfer.Description != "" {
		b.WriteString("\n📄 Note: " + transfer.Description)
	}
	fmt.Fprintf(&b, "\n📅 Date: %s\n\nIs there anything else you need?", fmtWhen(transfer.CreatedAt))
	return b.String(), nil
}

func (h *TransferHandler) details(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return `❌ Please provide a transfer ID (e.g., "status of transfer #67").`, nil
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "❌ Invalid transfer ID.", nil
	}
	transfer, err := h.client.GetTransfer(ctx, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `📋 **Transfer #%d Details**

💰 Amount: %s %s
📤 From: %s
📥 To: %s`,
		transfer.ID,
		fmtAmount(transfer.Amount), orEmpty(transfer.CurrencyCode, "USD"),
		accountLabel(transfer.FromAccountName, transfer.FromAccountID),
		accountLabel(transfer.ToAccountName, transfer.ToAccountID),
	)
	if transfer.Description != "" {
		b.WriteString("\n📄 Description: " + transfer.Description)
	}
	b.WriteString("\n📅 Created: " + fmtWhen(transfer.CreatedAt))
	if transfer.CreatedByName != "" {
		b.WriteString("\n👤 Created by: " + transfer.CreatedByName)
	}
	return b.String(), nil
}

func (h *TransferHandler) list(ctx context.Context, fields map[string]string) (string, error) {
	filters := model.ListFilters{}
	for _, k := range []string{"dateRange", "createdBy"} {
		if v := fields[k]; v != "" {
			filters[k] = v
		}
	}
	transfers, err := h.client.ListTransfers(ctx, listFetchLimit, filters)
	if err != nil {
		return "", err
	}
	if len(transfers) == 0 {
		return "📋 No transfers found.", nil
	}

	total := len(transfers)
	shown := transfers
	if total > listDisplayLimit {
		shown = transfers[:listDisplayLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Transfers** (%d found)\n\n", total)
	for _, transfer := range shown {
		creator := ""
		if transfer.CreatedByName != "" {
			creator = " | ✍️" + transfer.CreatedByName
		}
		description := ""
		if transfer.Description != "" {
			description = " | 📄" + transfer.Description
		}
		fmt.Fprintf(&b, "#%d %s: %s → %s | %s %s%s%s\n",
			transfer.ID, fmtShortDate(transfer.CreatedAt),
			accountLabel(transfer.FromAccountName, transfer.FromAccountID),
			accountLabel(transfer.ToAccountName, transfer.ToAccountID),
			fmtAmount(transfer.Amount), orEmpty(transfer.CurrencyCode, "USD"),
			creator, description,
		)
	}
	if remaining := total - listDisplayLimit; remaining > 0 {
		fmt.Fprintf(&b, "\n... and %d more transfers.\n", remaining)
		b.WriteString("💡 Tip: Use filters to narrow results")
	}
	return b.String(), nil
}

func accountLabel(name string, id int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Account #%d", id)
}
