// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/currency"
	"telegram-orderdesk-bot/internal/domain"
	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
)

// OrderHandler executes resolved order intents against the order system.
type OrderHandler struct {
	client    adapter.OrderSystemClient
	convRepo  repository.ConversationRepository
	engine    *currency.Engine
	directory *domain.Directory
	log       *zerolog.Logger
}

func NewOrderHandler(client adapter.OrderSystemClient, convRepo repository.ConversationRepository, engine *currency.Engine, directory *domain.Directory, logger *zerolog.Logger) *OrderHandler {
	l := logger.With().Str("component", "OrderHandler").Logger()
	return &OrderHandler{client: client, convRepo: convRepo, engine: engine, directory: directory, log: &l}
}

// Handle dispatches one resolved order decision. fields is the merged
// collected data for create flows; for query flows the decision data is
// already folded in by the orchestrator.
func (h *OrderHandler) Handle(ctx context.Context, dec model.Decision, fields map[string]string, roomID string, senderTgID int64) (string, error) {
	switch dec.Action {
	case model.ActionCreateOrder:
		return h.create(ctx, fields, dec.Message, roomID, senderTgID)
	case model.ActionGetOrder:
		return h.status(ctx, fields["order_id"])
	case model.ActionCompleteOrder:
		return h.complete(ctx, fields["order_id"])
	case model.ActionListOrders:
		return h.list(ctx, fields)
	}
	if dec.Message != "" {
		return dec.Message, nil
	}
	return "❌ Unknown order action", nil
}

// create validates the accumulated fields one gap at a time and only submits
// once every required field is present and the amounts reconcile.
func (h *OrderHandler) create(ctx context.Context, fields map[string]string, conversational, roomID string, senderTgID int64) (string, error) {
	if fields["fromCurrency"] == "" && fields["toCurrency"] == "" && fields["currencyPair"] != "" {
		if pair, ok := currency.ParsePair(fields["currencyPair"]); ok {
			fields["fromCurrency"] = pair.From
			fields["toCurrency"] = pair.To
		}
	}

	var missing []string
	for _, f := range []string{"customerName", "fromCurrency", "toCurrency", "rate"} {
		if fields[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return orEmpty(conversational, "I still need: "+strings.Join(missing, ", ")), nil
	}
	if fieldFloat(fields, "amountBuy") == 0 && fieldFloat(fields, "amountSell") == 0 {
		return orEmpty(conversational, "How much is the customer buying? (Or tell me how much they're selling)"), nil
	}
	if fields["buyAccount"] == "" {
		return orEmpty(conversational, fmt.Sprintf("Which account will receive the %s? (e.g., Main Wallet, HSBC Account)", fields["fromCurrency"])), nil
	}
	if fields["sellAccount"] == "" {
		return orEmpty(conversational, fmt.Sprintf("Which account will pay the %s? (e.g., Cash, Binance)", fields["toCurrency"])), nil
	}

	amounts := h.engine.ResolveAmounts(currency.OrderAmounts{
		FromCurrency: fields["fromCurrency"],
		ToCurrency:   fields["toCurrency"],
		Rate:         fieldFloat(fields, "rate"),
		AmountBuy:    fieldFloat(fields, "amountBuy"),
		AmountSell:   fieldFloat(fields, "amountSell"),
	})
	if amounts.AmountBuy == 0 || amounts.AmountSell == 0 {
		return "⚠️ I couldn't calculate the amounts. Please provide both buy and sell amounts, or check the rate.", nil
	}

	draft := model.OrderDraft{
		OrderType:    orEmpty(fields["orderType"], "online"),
		CustomerName: fields["customerName"],
		FromCurrency: amounts.FromCurrency,
		ToCurrency:   amounts.ToCurrency,
		Rate:         amounts.Rate,
		AmountBuy:    amounts.AmountBuy,
		AmountSell:   amounts.AmountSell,
		BuyAccount:   fields["buyAccount"],
		SellAccount:  fields["sellAccount"],
	}

	handlerName := "Unassigned"
	if systemUser, ok := h.directory.Lookup(senderTgID); ok {
		draft.HandlerID = systemUser.UserID
		handlerName = systemUser.Name
		h.log.Debug().Str("handler", systemUser.Name).Int("user_id", systemUser.UserID).Msg("assigned handler")
	} else {
		h.log.Warn().Int64("tg_id", senderTgID).Msg("no user mapping for sender, creating without handler")
	}

	// The flow is finished either way: a failed submit must not leave the
	// room stuck re-collecting the same order.
	order, err := h.client.CreateOrder(ctx, draft)
	if clearErr := h.convRepo.ClearAction(ctx, roomID); clearErr != nil {
		h.log.Error().Err(clearErr).Str("room_id", roomID).Msg("clear action failed")
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`✅ Perfect! Order Created Successfully!

📝 Order ID: #%d
👤 Customer: %s
💱 Pair: %s
📊 Rate: %s
💵 Buy: %s %s → %s
💸 Sell: %s %s → %s
📦 Type: %s
👨‍💼 Handler: %s
📅 Created: %s
✅ Status: %s

Is there anything else I can help you with?`,
		order.ID,
		order.CustomerName,
		currency.FormatPair(order.FromCurrency, order.ToCurrency),
		fmtAmount(order.Rate),
		fmtAmount(order.AmountBuy), order.FromCurrency, draft.BuyAccount,
		fmtAmount(order.AmountSell), order.ToCurrency, draft.SellAccount,
		order.OrderType,
		handlerName,
		fmtWhen(order.CreatedAt),
		order.Status,
	), nil
}

func (h *OrderHandler) status(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return `❌ Please provide an order ID (e.g., "status of order #123").`, nil
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "❌ Invalid order ID. Please provide a valid number.", nil
	}
	order, err := h.client.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}

	reply := fmt.Sprintf(`📋 Order #%d Details

👤 Customer: %s
💱 Exchange: %s %s → %s %s
📊 Rate: %s
📦 Type: %s
✅ Status: %s
📅 Created: %s`,
		order.ID,
		orEmpty(order.CustomerName, "N/A"),
		fmtAmount(order.AmountBuy), order.FromCurrency,
		fmtAmount(order.AmountSell), order.ToCurrency,
		fmtAmount(order.Rate),
		orEmpty(order.OrderType, "online"),
		order.Status,
		fmtWhen(order.CreatedAt),
	)
	if order.HandlerName != "" {
		reply += "\n👨‍💼 Handler: " + order.HandlerName
	}
	return reply, nil
}

func (h *OrderHandler) complete(ctx context.Context, rawID string) (string, error) {
	if rawID == "" {
		return `❌ Please provide an order ID (e.g., "complete order #123").`, nil
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "❌ Invalid order ID. Please provide a valid number.", nil
	}
	order, err := h.client.CompleteOrder(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`✅ Order #%d Completed!

Order has been marked as complete.
💱 %s %s → %s %s`,
		order.ID,
		fmtAmount(order.AmountBuy), order.FromCurrency,
		fmtAmount(order.AmountSell), order.ToCurrency,
	), nil
}

func (h *OrderHandler) list(ctx context.Context, fields map[string]string) (string, error) {
	filters := orderFilters(fields)
	orders, err := h.client.ListOrders(ctx, listFetchLimit, filters)
	if err != nil {
		return "", err
	}
	filterDesc := buildFilterDescription(filters)
	if len(orders) == 0 {
		return fmt.Sprintf("📋 No orders found%s.", filterDesc), nil
	}

	total := len(orders)
	shown := orders
	if total > listDisplayLimit {
		shown = orders[:listDisplayLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Orders%s (%d found)\n\n", filterDesc, total)
	for _, order := range shown {
		handler := ""
		if order.HandlerName != "" {
			handler = " | 👤" + order.HandlerName
		}
		creator := ""
		if order.CreatedByName != "" {
			creator = " | ✍️" + order.CreatedByName
		}
		tags := ""
		if order.Tags != "" {
			tags = " | 🏷️" + order.Tags
		}
		rate := ""
		if order.Rate != 0 {
			rate = "@" + fmtAmount(order.Rate)
		}
		fmt.Fprintf(&b, "#%d %s: %s %s → %s %s %s | %s | 👥%s%s%s%s\n",
			order.ID, fmtShortDate(order.CreatedAt),
			fmtAmount(order.AmountBuy), order.FromCurrency,
			fmtAmount(order.AmountSell), order.ToCurrency,
			rate, order.Status,
			orEmpty(order.CustomerName, "Unknown"),
			handler, creator, tags,
		)
	}
	if remaining := total - listDisplayLimit; remaining > 0 {
		fmt.Fprintf(&b, "\n... and %d more orders.\n", remaining)
		b.WriteString("💡 Tip: Use filters to narrow results (status, customer, handler, date, tags, currency pair)")
	}
	return b.String(), nil
}

// orderFilters keeps only keys the list endpoint understands.
func orderFilters(fields map[string]string) model.ListFilters {
	filters := model.ListFilters{}
	for _, k := range []string{"status", "tags", "handler", "customer", "createdBy", "dateRange", "currencyPair"} {
		if v := fields[k]; v != "" {
			filters[k] = v
		}
	}
	return filters
}

// buildFilterDescription renders the parenthesized filter summary used in
// list headers, or "" when no filters apply.
func buildFilterDescription(filters model.ListFilters) string {
	var parts []string
	if v := filters["status"]; v != "" {
		parts = append(parts, "status: "+v)
	}
	if v := filters["tags"]; v != "" {
		parts = append(parts, "tags: "+v)
	}
	if v := filters["handler"]; v != "" {
		parts = append(parts, "handler: "+v)
	}
	if v := filters["customer"]; v != "" {
		parts = append(parts, "customer: "+v)
	}
	if v := filters["createdBy"]; v != "" {
		parts = append(parts, "created by: "+v)
	}
	if v := filters["dateRange"]; v != "" {
		if label, ok := model.DateRangeLabels[v]; ok {
			parts = append(parts, label)
		} else {
			parts = append(parts, v)
		}
	}
	if v := filters["currencyPair"]; v != "" {
		parts = append(parts, "pair: "+v)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
