package model

import "time"

// Order is a currency-exchange order as returned by the order system.
type Order struct {
	ID            int       `json:"id"`
	OrderType     string    `json:"orderType"`
	CustomerName  string    `json:"customerName"`
	FromCurrency  string    `json:"fromCurrency"`
	ToCurrency    string    `json:"toCurrency"`
	Rate          float64   `json:"rate"`
	AmountBuy     float64   `json:"amountBuy"`
	AmountSell    float64   `json:"amountSell"`
	BuyAccount    string    `json:"buyAccount,omitempty"`
	SellAccount   string    `json:"sellAccount,omitempty"`
	Status        string    `json:"status"`
	HandlerID     int       `json:"handlerId,omitempty"`
	HandlerName   string    `json:"handlerName,omitempty"`
	CreatedByName string    `json:"createdByName,omitempty"`
	Tags          string    `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderDraft carries the fields submitted on create. Zero amounts mean
// "unknown"; the reconciliation engine fills the missing one before submit.
type OrderDraft struct {
	OrderType    string  `json:"orderType"`
	CustomerName string  `json:"customerName"`
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Rate         float64 `json:"rate"`
	AmountBuy    float64 `json:"amountBuy,omitempty"`
	AmountSell   float64 `json:"amountSell,omitempty"`
	BuyAccount   string  `json:"buyAccount"`
	SellAccount  string  `json:"sellAccount"`
	HandlerID    int     `json:"handlerId,omitempty"`
}

// Expense mirrors the order-system expense record.
type Expense struct {
	ID            int       `json:"id"`
	Amount        float64   `json:"amount"`
	CurrencyCode  string    `json:"currencyCode,omitempty"`
	Description   string    `json:"description"`
	AccountID     int       `json:"accountId,omitempty"`
	AccountName   string    `json:"accountName,omitempty"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExpenseDraft carries the create payload for an expense.
type ExpenseDraft struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode,omitempty"`
	Description  string  `json:"description"`
	AccountID    int     `json:"accountId,omitempty"`
	AccountName  string  `json:"accountName,omitempty"`
}

// Transfer mirrors the order-system internal transfer record.
type Transfer struct {
	ID              int       `json:"id"`
	Amount          float64   `json:"amount"`
	CurrencyCode    string    `json:"currencyCode,omitempty"`
	Description     string    `json:"description,omitempty"`
	FromAccountID   int       `json:"fromAccountId,omitempty"`
	FromAccountName string    `json:"fromAccountName,omitempty"`
	ToAccountID     int       `json:"toAccountId,omitempty"`
	ToAccountName   string    `json:"toAccountName,omitempty"`
	CreatedByName   string    `json:"createdByName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TransferDraft carries the create payload for a transfer.
type TransferDraft struct {
	Amount          float64 `json:"amount"`
	CurrencyCode    string  `json:"currencyCode,omitempty"`
	Description     string  `json:"description,omitempty"`
	FromAccountID   int     `json:"fromAccountId,omitempty"`
	FromAccountName string  `json:"fromAccountName,omitempty"`
	ToAccountID     int     `json:"toAccountId,omitempty"`
	ToAccountName   string  `json:"toAccountName,omitempty"`
}

// ListFilters are forwarded verbatim to the order-system list endpoints.
// Known keys: status, tags, handler, customer, createdBy, dateRange,
// currencyPair (orders); dateRange, createdBy (expenses, transfers).
type ListFilters map[string]string

// DateRangeLabels maps normalized dateRange filter values to the fixed
// human-readable labels used in list response headers.
var DateRangeLabels = map[string]string{
	"today":         "today",
	"last_week":     "last week",
	"this_week":     "this week",
	"current_month": "current month",
	"last_month":    "last month",
}
