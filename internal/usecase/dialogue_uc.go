// File: internal/usecase/dialogue_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain"
	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
	"telegram-orderdesk-bot/internal/infra/logging"
	"telegram-orderdesk-bot/internal/infra/metrics"
)

// DialogueOrchestrator is the per-turn entry point: it owns meta-commands,
// the admin gate, resolver invocation, dispatch and the history writes.
// Exactly one assistant message is appended per handled turn.
type DialogueOrchestrator struct {
	resolver  IntentResolver
	convRepo  repository.ConversationRepository
	orders    *OrderHandler
	expenses  *ExpenseHandler
	transfers *TransferHandler
	directory *domain.Directory
	window    int
	rooms     keyedMutex
	log       *zerolog.Logger
}

func NewDialogueOrchestrator(
	resolver IntentResolver,
	convRepo repository.ConversationRepository,
	orders *OrderHandler,
	expenses *ExpenseHandler,
	transfers *TransferHandler,
	directory *domain.Directory,
	contextWindow int,
	logger *zerolog.Logger,
) *DialogueOrchestrator {
	l := logger.With().Str("component", "DialogueOrchestrator").Logger()
	return &DialogueOrchestrator{
		resolver:  resolver,
		convRepo:  convRepo,
		orders:    orders,
		expenses:  expenses,
		transfers: transfers,
		directory: directory,
		window:    contextWindow,
		log:       &l,
	}
}

// HandleMessage processes one inbound user message and returns the reply
// text. Turns for the same room are serialized; different rooms proceed in
// parallel. Errors are rendered into the reply, never returned raw.
func (o *DialogueOrchestrator) HandleMessage(ctx context.Context, roomID string, senderTgID int64, text string) string {
	unlock := o.rooms.lock(roomID)
	defer unlock()

	ctx = logging.WithRoomID(ctx, roomID)
	log := logging.With(ctx, o.log)

	if err := o.convRepo.Append(ctx, roomID, model.RoleUser, text); err != nil {
		log.Error().Err(err).Msg("append user message failed")
	}

	reply, outcome := o.turn(ctx, roomID, senderTgID, text)
	metrics.IncTurn(outcome)

	if err := o.convRepo.Append(ctx, roomID, model.RoleAssistant, reply); err != nil {
		log.Error().Err(err).Msg("append assistant message failed")
	}
	return reply
}

func (o *DialogueOrchestrator) turn(ctx context.Context, roomID string, senderTgID int64, text string) (reply, outcome string) {
	log := logging.With(ctx, o.log)
	isAdmin := o.directory.IsAdmin(senderTgID)
	trimmed := strings.ToLower(strings.TrimSpace(text))

	if trimmed == "help" || trimmed == "!help" {
		return HelpMessage(isAdmin), "ok"
	}
	switch trimmed {
	case "cancel", "reset", "start over", "clear":
		if err := o.convRepo.ClearAction(ctx, roomID); err != nil {
			log.Error().Err(err).Msg("clear action failed")
		}
		return "Okay, I've cleared everything. What would you like to do?", "ok"
	}

	currentAction, err := o.convRepo.CurrentAction(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("read current action failed")
	}
	collected, err := o.convRepo.CollectedData(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("read collected data failed")
	}

	// A non-admin can never be mid-collection legitimately; unblock the room
	// before spending a classifier call.
	if currentAction.IsCreate() && !isAdmin {
		if err := o.convRepo.ClearAction(ctx, roomID); err != nil {
			log.Error().Err(err).Msg("clear action failed")
		}
		return domain.NonAdminMessage(string(currentAction)), "rejected"
	}

	history, err := o.convRepo.HistoryWindow(ctx, roomID, o.window)
	if err != nil {
		log.Error().Err(err).Msg("read history failed")
	}

	dec, err := o.resolver.Resolve(ctx, text, history, currentAction, collected)
	if err != nil {
		// In-progress state stays untouched; the next message re-enters
		// with the same context.
		return "❌ Oops! Something went wrong: I couldn't understand that right now. Please try again.", "error"
	}

	if dec.Action == model.ActionAskQuestion {
		return o.askQuestion(ctx, dec, roomID, currentAction, isAdmin)
	}

	if dec.Action.IsCreate() && !isAdmin {
		if err := o.convRepo.ClearAction(ctx, roomID); err != nil {
			log.Error().Err(err).Msg("clear action failed")
		}
		return domain.NonAdminMessage(string(dec.Action)), "rejected"
	}

	reply, err = o.dispatch(ctx, dec, roomID, senderTgID, collected)
	if err != nil {
		log.Error().Err(err).Str("action", string(dec.Action)).Msg("handler failed")
		return fmt.Sprintf("❌ Oops! Something went wrong: %s", err.Error()), "error"
	}
	return reply, "ok"
}

// askQuestion folds partially extracted data into the room state and relays
// the resolver's follow-up question. The create intent behind the question is
// inferred so the admin gate applies from the very first turn.
func (o *DialogueOrchestrator) askQuestion(ctx context.Context, dec model.Decision, roomID string, currentAction model.Action, isAdmin bool) (string, string) {
	log := logging.With(ctx, o.log)
	actionType := currentAction
	if actionType == model.ActionNone && dec.Message != "" {
		actionType = inferActionFromMessage(dec.Message)
	}
	if actionType == model.ActionNone && len(dec.Data) > 0 {
		actionType = guessActionFromData(dec.Data)
	}

	if actionType.IsCreate() && !isAdmin {
		if err := o.convRepo.ClearAction(ctx, roomID); err != nil {
			log.Error().Err(err).Msg("clear action failed")
		}
		return domain.NonAdminMessage(string(actionType)), "rejected"
	}

	if actionType != model.ActionNone && len(dec.Data) > 0 {
		if err := o.convRepo.SetAction(ctx, roomID, actionType, dec.Data); err != nil {
			log.Error().Err(err).Msg("set action failed")
		}
	}

	return orEmpty(dec.Message, "Could you provide more details?"), "ok"
}

func (o *DialogueOrchestrator) dispatch(ctx context.Context, dec model.Decision, roomID string, senderTgID int64, collected map[string]string) (string, error) {
	fields := dec.Data
	if dec.Action.IsCreate() {
		// Fold this turn's extractions into the room state first so that a
		// re-prompt keeps everything gathered so far.
		if err := o.convRepo.SetAction(ctx, roomID, dec.Action, dec.Data); err != nil {
			logging.With(ctx, o.log).Error().Err(err).Msg("set action failed")
		}
		merged, err := o.convRepo.CollectedData(ctx, roomID)
		if err == nil && len(merged) > 0 {
			fields = merged
		}
	} else if fields == nil {
		fields = map[string]string{}
	}

	switch dec.Action {
	case model.ActionCreateOrder, model.ActionGetOrder, model.ActionCompleteOrder, model.ActionListOrders:
		return o.orders.Handle(ctx, dec, fields, roomID, senderTgID)
	case model.ActionCreateExpense, model.ActionGetExpense, model.ActionListExpenses:
		return o.expenses.Handle(ctx, dec, fields, roomID)
	case model.ActionCreateTransfer, model.ActionGetTransfer, model.ActionListTransfers:
		return o.transfers.Handle(ctx, dec, fields, roomID)
	case model.ActionHelp:
		return HelpMessage(o.directory.IsAdmin(senderTgID)), nil
	}
	return orEmpty(dec.Message, "I'm not sure what you want to do. I can help you check orders, view expenses, or review transfers. What would you like to know?"), nil
}

// inferActionFromMessage recovers the create intent behind a follow-up
// question from the resolver's own wording.
func inferActionFromMessage(message string) model.Action {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "help you create an order") || strings.Contains(lower, "create order"):
		return model.ActionCreateOrder
	case strings.Contains(lower, "create an expense") || strings.Contains(lower, "add expense"):
		return model.ActionCreateExpense
	case strings.Contains(lower, "create a transfer") || strings.Contains(lower, "transfer"):
		return model.ActionCreateTransfer
	}
	return model.ActionNone
}

// guessActionFromData infers the create intent from the shape of extracted
// fields when the wording gave nothing away.
func guessActionFromData(data map[string]string) model.Action {
	if data["fromCurrency"] != "" || data["toCurrency"] != "" || data["rate"] != "" {
		return model.ActionCreateOrder
	}
	if data["description"] != "" && data["amount"] != "" && data["fromAccountName"] == "" {
		return model.ActionCreateExpense
	}
	if data["fromAccountName"] != "" || data["toAccountName"] != "" {
		return model.ActionCreateTransfer
	}
	return model.ActionNone
}

// HelpMessage renders the command overview; admins additionally see the
// create examples.
func HelpMessage(isAdmin bool) string {
	adminCommands := ""
	if isAdmin {
		adminCommands = `

**🔧 Admin Commands:**
• Create order: "Create order for John, buy 500 USDT sell 520 USD, rate 1.04"
• Add expense: "Add expense: Office supplies, $50 from Account Main"
• Create transfer: "Transfer $1000 from Account A to Account B"
• Complete order: "Complete order #123"`
	}

	return fmt.Sprintf(`📋 **Order System Bot - Available Commands**

**📦 Orders:**
• Check status: "What's the status of order #123?"
• List recent orders: "Show me recent orders"
• Search orders: "Show orders for customer John"

**💰 Expenses:**
• Check expense: "Show expense #45"
• List expenses: "Show recent expenses"

**🔄 Transfers:**
• Check transfer: "Status of transfer #67"
• List transfers: "Show recent transfers"%s

**💡 Tips:**
• Just type naturally, I'll understand!
• Type 'help' anytime to see this message
• To create orders/expenses/transfers, please use the web system`, adminCommands)
}

// keyedMutex serializes work per key while letting distinct keys run
// concurrently. Entries are created on demand and kept for the process
// lifetime; the key space is bounded by the set of active chat rooms.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
