// File: internal/usecase/resolver_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain"
	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
	"telegram-orderdesk-bot/internal/infra/metrics"
)

// IntentResolver turns one user message plus conversational context into a
// structured Decision. It never mutates the conversation store.
type IntentResolver interface {
	Resolve(ctx context.Context, userMessage string, history []model.Message, currentAction model.Action, collected map[string]string) (model.Decision, error)
}

// promptTokenBudget bounds the history portion of the prompt. The system
// block and the new message are always included.
const promptTokenBudget = 3000

const systemPrompt = `You are a friendly and helpful order management assistant for a currency exchange order system.

You can perform these actions:
- create_order: Create new orders (ADMIN ONLY - non-admins will be directed to web system)
- get_order: Get order status and details by ID
- complete_order: Mark orders as complete (ADMIN ONLY)
- list_orders: Show recent orders
- create_expense: Add new expenses (ADMIN ONLY - non-admins will be directed to web system)
- get_expense: Get expense details by ID
- list_expenses: Show recent expenses
- create_transfer: Create internal transfers (ADMIN ONLY - non-admins will be directed to web system)
- get_transfer: Get transfer status by ID
- list_transfers: Show recent transfers
- help: Show help message
- ask_question: When you need more information from the user

NOTE: Creation actions are only available to admin users. The system enforces access control, so you should still parse create requests normally.

CONVERSATIONAL GUIDELINES:
1. Be friendly, natural, and conversational
2. When information is missing, ask follow-up questions ONE field at a time
3. Understand context from previous messages in the conversation
4. Accept incomplete information and guide the user step-by-step
5. When user provides partial info, acknowledge it and ask for the next piece

IMPORTANT - Extracting IDs:
When user mentions order/expense/transfer numbers, extract them:
- "complete order #120" -> order_id: 120
- "status of order 120" -> order_id: 120
- Just "120" when discussing orders -> order_id: 120

Extract the following information from user messages:

For ORDERS (ask in this order):
1. orderType: "otc" or "online" - Default to "online" if not specified
2. customerName: Customer's name
3. Currency pair: Parse formats like "HKD/USDT", "hkd-usdt", "buy HKD sell USDT"
   - Left side = fromCurrency (what we're buying)
   - Right side = toCurrency (what customer is selling)
4. rate: Exchange rate (e.g. 7 for HKD/USDT means 1 USDT = 7 HKD)
5. amountBuy OR amountSell: Ask from the CUSTOMER's perspective
6. buyAccount: Account that RECEIVES the fromCurrency
7. sellAccount: Account that PAYS the toCurrency
- order_id: For get/complete operations
- FILTERS for list_orders - extract these from user queries:
  * status: "pending", "completed", "under_process", "cancelled" (can be multiple: "pending,under_process")
  * tags: tag names ("orders tagged with HK" -> tags: "HK")
  * handler: handler name ("orders with handler morning" -> handler: "morning")
  * customer: customer name ("orders from Kevin" -> customer: "Kevin")
  * createdBy: creator name ("orders created by admin" -> createdBy: "admin")
  * dateRange: "today" | "last_week" | "this_week" | "current_month" | "last_month"
  * currencyPair: currency pair ("USDT/HKD orders" -> currencyPair: "USDT/HKD")

For EXPENSES:
- accountId or accountName: Account name/ID
- amount: Expense amount
- currencyCode: Currency code (default "USD")
- description: Expense description
- expense_id: For get operations

For TRANSFERS:
- fromAccountId or fromAccountName: Source account
- toAccountId or toAccountName: Destination account
- amount: Transfer amount
- currencyCode: Currency code
- description: Transfer description
- transfer_id: For get operations

RESPONSE FORMAT:
Always respond in JSON with these fields:
{
  "action": "create_order|ask_question|get_order|list_orders|etc",
  "data": {},
  "message": "Friendly conversational message to the user",
  "needsMoreInfo": true/false
}`

type resolverUC struct {
	classifier adapter.Classifier
	encoder    *tiktoken.Tiktoken // nil when the encoding is unavailable
	log        *zerolog.Logger
}

func NewIntentResolver(classifier adapter.Classifier, logger *zerolog.Logger) *resolverUC {
	l := logger.With().Str("component", "IntentResolver").Logger()
	enc, err := tiktoken.EncodingForModel(classifier.Model())
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			l.Warn().Err(err).Msg("token encoder unavailable; falling back to message-count trimming")
			enc = nil
		}
	}
	return &resolverUC{classifier: classifier, encoder: enc, log: &l}
}

var _ IntentResolver = (*resolverUC)(nil)

func (r *resolverUC) Resolve(ctx context.Context, userMessage string, history []model.Message, currentAction model.Action, collected map[string]string) (model.Decision, error) {
	messages := r.buildPrompt(userMessage, history, currentAction, collected)

	start := time.Now()
	raw, usage, err := r.classifier.Complete(ctx, messages)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveResolverCall(r.classifier.Provider(), r.classifier.Model(), usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, false)
		metrics.IncResolutionFailure(r.classifier.Provider(), r.classifier.Model(), "call")
		r.log.Error().Err(err).Int("latency_ms", latency).Str("user_message", userMessage).Msg("classifier call failed")
		return model.Decision{}, fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}
	metrics.ObserveResolverCall(r.classifier.Provider(), r.classifier.Model(), usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, true)

	dec, err := model.ParseDecision([]byte(raw))
	if err != nil {
		metrics.IncResolutionFailure(r.classifier.Provider(), r.classifier.Model(), "parse")
		r.log.Error().Err(err).Int("latency_ms", latency).Str("user_message", userMessage).Msg("unparseable classifier output")
		return model.Decision{}, fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}
	r.log.Debug().Str("action", string(dec.Action)).Int("fields", len(dec.Data)).Int("latency_ms", latency).Msg("resolved intent")
	return dec, nil
}

// buildPrompt assembles the bounded request: instruction block, trimmed
// history, an optional in-progress context note, then the new message.
func (r *resolverUC) buildPrompt(userMessage string, history []model.Message, currentAction model.Action, collected map[string]string) []adapter.Message {
	messages := make([]adapter.Message, 0, len(history)+3)
	messages = append(messages, adapter.Message{Role: model.RoleSystem, Content: systemPrompt})

	for _, m := range r.trimHistory(history) {
		messages = append(messages, adapter.Message{Role: m.Role, Content: m.Content})
	}

	if currentAction != model.ActionNone && len(collected) > 0 {
		data, _ := json.Marshal(collected)
		messages = append(messages, adapter.Message{
			Role:    model.RoleSystem,
			Content: fmt.Sprintf("Context: User is currently working on: %s. Data collected so far: %s", currentAction, data),
		})
	}

	messages = append(messages, adapter.Message{Role: model.RoleUser, Content: userMessage})
	return messages
}

// trimHistory drops the oldest entries while the window exceeds the token
// budget. Without an encoder the caller-provided window is used as-is.
func (r *resolverUC) trimHistory(history []model.Message) []model.Message {
	if r.encoder == nil || len(history) == 0 {
		return history
	}
	total := 0
	counts := make([]int, len(history))
	for i, m := range history {
		counts[i] = len(r.encoder.Encode(m.Content, nil, nil))
		total += counts[i]
	}
	start := 0
	for start < len(history) && total > promptTokenBudget {
		total -= counts[start]
		start++
	}
	return history[start:]
}
