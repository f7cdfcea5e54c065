// Package orderapi implements the order-system REST client.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.OrderSystemClient = (*Client)(nil)

// Error is the single error type surfaced by the client. Network failures,
// timeouts and non-2xx responses all end up here with a message that is safe
// to show to a user.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Client talks to the order system over an authenticated channel: a static
// key in the X-Bot-API-Key header and a fixed request timeout.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    *zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := logger.With().Str("component", "orderapi").Logger()
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		log:    &l,
	}
}

// do runs one exchange and decodes the response body into out (unless nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: fmt.Sprintf("failed to %s: %v", op, err)}
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("failed to %s: %v", op, err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bot-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Str("path", path).Msg("order system unreachable")
		return &Error{Op: op, Message: fmt.Sprintf("Network error: cannot reach order system at %s", c.base)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Prefer the server's own error message when it sends one.
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = fmt.Sprintf("Failed to %s", op)
		}
		c.log.Error().Str("op", op).Int("status", resp.StatusCode).Str("path", path).Msg("order system error response")
		return &Error{Op: op, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("Failed to %s: bad response", op)}
	}
	return nil
}

func listQuery(limit int, filters model.ListFilters) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return "?" + q.Encode()
}

// ---- Orders ----

func (c *Client) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, "create order", http.MethodPost, "/api/bot/orders", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, "get order", http.MethodGet, fmt.Sprintf("/api/bot/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteOrder(ctx context.Context, id int) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, "complete order", http.MethodPatch, fmt.Sprintf("/api/bot/orders/%d/complete", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, limit int, filters model.ListFilters) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, "list orders", http.MethodGet, "/api/bot/orders"+listQuery(limit, filters), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Expenses ----

func (c *Client) CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	var out model.Expense
	if err := c.do(ctx, "create expense", http.MethodPost, "/api/bot/expenses", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetExpense(ctx context.Context, id int) (*model.Expense, error) {
	var out model.Expense
	if err := c.do(ctx, "get expense", http.MethodGet, fmt.Sprintf("/api/bot/expenses/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListExpenses(ctx context.Context, limit int, filters model.ListFilters) ([]model.Expense, error) {
	var out []model.Expense
	if err := c.do(ctx, "list expenses", http.MethodGet, "/api/bot/expenses"+listQuery(limit, filters), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Transfers ----

func (c *Client) CreateTransfer(ctx context.Context, draft model.TransferDraft) (*model.Transfer, error) {
	var out model.Transfer
	if err := c.do(ctx, "create transfer", http.MethodPost, "/api/bot/transfers", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTransfer(ctx context.Context, id int) (*model.Transfer, error) {
	var out model.Transfer
	if err := c.do(ctx, "get transfer", http.MethodGet, fmt.Sprintf("/api/bot/transfers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTransfers(ctx context.Context, limit int, filters model.ListFilters) ([]model.Transfer, error) {
	var out []model.Transfer
	if err := c.do(ctx, "list transfers", http.MethodGet, "/api/bot/transfers"+listQuery(limit, filters), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
