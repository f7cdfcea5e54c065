// File: internal/usecase/mock_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
)

// ---- Fakes ----

// fakeResolver returns scripted decisions and records every call.
type fakeResolver struct {
	decisions []model.Decision
	err       error
	calls     int
	lastMsg   string
}

func (f *fakeResolver) Resolve(ctx context.Context, userMessage string, history []model.Message, currentAction model.Action, collected map[string]string) (model.Decision, error) {
	f.calls++
	f.lastMsg = userMessage
	if f.err != nil {
		return model.Decision{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.decisions) {
		i = len(f.decisions) - 1
	}
	return f.decisions[i], nil
}

// fakeOrderClient records calls and serves canned records.
type fakeOrderClient struct {
	createOrderCalls    int
	getOrderCalls       int
	completeOrderCalls  int
	listOrderCalls      int
	createExpenseCalls  int
	createTransferCalls int

	lastOrderDraft model.OrderDraft
	lastFilters    model.ListFilters

	orders    []model.Order
	failWith  error
	createdAt time.Time
}

func (f *fakeOrderClient) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	f.createOrderCalls++
	f.lastOrderDraft = draft
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Order{
		ID:           120,
		OrderType:    draft.OrderType,
		CustomerName: draft.CustomerName,
		FromCurrency: draft.FromCurrency,
		ToCurrency:   draft.ToCurrency,
		Rate:         draft.Rate,
		AmountBuy:    draft.AmountBuy,
		AmountSell:   draft.AmountSell,
		Status:       "pending",
		CreatedAt:    f.createdAt,
	}, nil
}

func (f *fakeOrderClient) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	f.getOrderCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Order{ID: id, CustomerName: "Kevin", FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountBuy: 700, AmountSell: 100, Status: "pending", CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) CompleteOrder(ctx context.Context, id int) (*model.Order, error) {
	f.completeOrderCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Order{ID: id, FromCurrency: "HKD", ToCurrency: "USDT", AmountBuy: 700, AmountSell: 100, Status: "completed", CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) ListOrders(ctx context.Context, limit int, filters model.ListFilters) ([]model.Order, error) {
	f.listOrderCalls++
	f.lastFilters = filters
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.orders, nil
}

func (f *fakeOrderClient) CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	f.createExpenseCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Expense{ID: 45, Amount: draft.Amount, CurrencyCode: draft.CurrencyCode, Description: draft.Description, AccountName: draft.AccountName, CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) GetExpense(ctx context.Context, id int) (*model.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Expense{ID: id, Amount: 50, Description: "Office supplies", CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) ListExpenses(ctx context.Context, limit int, filters model.ListFilters) ([]model.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return nil, nil
}

func (f *fakeOrderClient) CreateTransfer(ctx context.Context, draft model.TransferDraft) (*model.Transfer, error) {
	f.createTransferCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Transfer{ID: 67, Amount: draft.Amount, CurrencyCode: draft.CurrencyCode, FromAccountName: draft.FromAccountName, ToAccountName: draft.ToAccountName, Description: draft.Description, CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) GetTransfer(ctx context.Context, id int) (*model.Transfer, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &model.Transfer{ID: id, Amount: 1000, FromAccountName: "A", ToAccountName: "B", CreatedAt: f.createdAt}, nil
}

func (f *fakeOrderClient) ListTransfers(ctx context.Context, limit int, filters model.ListFilters) ([]model.Transfer, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return nil, nil
}

// fakeBot records sent messages; fails for chat IDs in failFor.
type fakeBot struct {
	mu      sync.Mutex
	sent    []string
	fail    int // fail the first N sends
	failErr error
}

func (f *fakeBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		if f.failErr == nil {
			f.failErr = errors.New("send failed")
		}
		return f.failErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeBot) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeClassifier returns a fixed raw completion.
type fakeClassifier struct {
	raw      string
	err      error
	lastMsgs []adapter.Message
}

func (f *fakeClassifier) Complete(ctx context.Context, messages []adapter.Message) (string, adapter.Usage, error) {
	f.lastMsgs = messages
	if f.err != nil {
		return "", adapter.Usage{}, f.err
	}
	return f.raw, adapter.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeClassifier) Provider() string { return "fake" }
func (f *fakeClassifier) Model() string    { return "fake-model" }

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
