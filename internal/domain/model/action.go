package model

// Action is the intent tag produced by the resolver and tracked per room.
type Action string

const (
	ActionNone           Action = ""
	ActionAskQuestion    Action = "ask_question"
	ActionHelp           Action = "help"
	ActionCreateOrder    Action = "create_order"
	ActionGetOrder       Action = "get_order"
	ActionCompleteOrder  Action = "complete_order"
	ActionListOrders     Action = "list_orders"
	ActionCreateExpense  Action = "create_expense"
	ActionGetExpense     Action = "get_expense"
	ActionListExpenses   Action = "list_expenses"
	ActionCreateTransfer Action = "create_transfer"
	ActionGetTransfer    Action = "get_transfer"
	ActionListTransfers  Action = "list_transfers"
)

// IsCreate reports whether the action mutates the order system and is
// therefore gated on the admin allow-list.
func (a Action) IsCreate() bool {
	switch a {
	case ActionCreateOrder, ActionCreateExpense, ActionCreateTransfer:
		return true
	}
	return false
}

// Known reports whether a is one of the supported domain actions.
func (a Action) Known() bool {
	switch a {
	case ActionAskQuestion, ActionHelp,
		ActionCreateOrder, ActionGetOrder, ActionCompleteOrder, ActionListOrders,
		ActionCreateExpense, ActionGetExpense, ActionListExpenses,
		ActionCreateTransfer, ActionGetTransfer, ActionListTransfers:
		return true
	}
	return false
}

// collectedFields enumerates the field names each in-progress create action
// may accumulate. Patch keys outside the set are dropped on merge so that
// stray resolver output never persists silently.
var collectedFields = map[Action]map[string]struct{}{
	ActionCreateOrder: setOf(
		"orderType", "customerName", "currencyPair",
		"fromCurrency", "toCurrency", "rate",
		"amountBuy", "amountSell", "buyAccount", "sellAccount",
	),
	ActionCreateExpense: setOf(
		"amount", "description", "accountId", "accountName", "currencyCode",
	),
	ActionCreateTransfer: setOf(
		"amount", "description", "currencyCode",
		"fromAccountId", "fromAccountName", "toAccountId", "toAccountName",
	),
}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// MergeFields merges patch into dst for the given action, returning the keys
// it refused. Actions without a registered field set (queries, id lookups)
// accept any keys since their data is consumed immediately, not stored.
func MergeFields(action Action, dst map[string]string, patch map[string]string) (dropped []string) {
	allowed, typed := collectedFields[action]
	for k, v := range patch {
		if v == "" {
			continue
		}
		if typed {
			if _, ok := allowed[k]; !ok {
				dropped = append(dropped, k)
				continue
			}
		}
		dst[k] = v
	}
	return dropped
}
