package adapter

import (
	"context"

	"telegram-orderdesk-bot/internal/domain/model"
)

// OrderSystemClient is the port for the external order-management REST API.
// Every method maps to one (entity × verb) endpoint. Implementations surface
// non-2xx responses and network failures as a single error type carrying a
// human-readable message.
type OrderSystemClient interface {
	CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	GetOrder(ctx context.Context, id int) (*model.Order, error)
	CompleteOrder(ctx context.Context, id int) (*model.Order, error)
	ListOrders(ctx context.Context, limit int, filters model.ListFilters) ([]model.Order, error)

	CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error)
	GetExpense(ctx context.Context, id int) (*model.Expense, error)
	ListExpenses(ctx context.Context, limit int, filters model.ListFilters) ([]model.Expense, error)

	CreateTransfer(ctx context.Context, draft model.TransferDraft) (*model.Transfer, error)
	GetTransfer(ctx context.Context, id int) (*model.Transfer, error)
	ListTransfers(ctx context.Context, limit int, filters model.ListFilters) ([]model.Transfer, error)
}
