// File: internal/infra/orderapi/client_test.go
package orderapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.Nop()
	return NewClient(srv.URL, "test-key", 5*time.Second, &log), srv
}

func TestCreateOrderSendsAuthHeader(t *testing.T) {
	var gotKey, gotPath, gotMethod string
	var gotDraft model.OrderDraft
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Bot-API-Key")
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotDraft)
		_ = json.NewEncoder(w).Encode(model.Order{ID: 120, CustomerName: gotDraft.CustomerName})
	})

	order, err := c.CreateOrder(context.Background(), model.OrderDraft{
		CustomerName: "Kevin", FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountBuy: 700, AmountSell: 100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/bot/orders" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotDraft.Rate != 7 || gotDraft.AmountSell != 100 {
		t.Fatalf("draft sent = %+v", gotDraft)
	}
	if order.ID != 120 {
		t.Fatalf("order id = %d", order.ID)
	}
}

func TestCompleteOrderPath(t *testing.T) {
	var gotPath, gotMethod string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewEncoder(w).Encode(model.Order{ID: 120, Status: "completed"})
	})

	order, err := c.CompleteOrder(context.Background(), 120)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/bot/orders/120/complete" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if order.Status != "completed" {
		t.Fatalf("status = %q", order.Status)
	}
}

func TestListOrdersForwardsFilters(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]model.Order{{ID: 1}})
	})

	orders, err := c.ListOrders(context.Background(), 100, model.ListFilters{
		"status":   "pending",
		"customer": "Kevin",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d", len(orders))
	}
	if gotQuery["limit"][0] != "100" || gotQuery["status"][0] != "pending" || gotQuery["customer"][0] != "Kevin" {
		t.Fatalf("query = %v", gotQuery)
	}
}

func TestServerErrorMessagePreferred(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid handler ID"})
	})

	_, err := c.GetOrder(context.Background(), 1)
	if err == nil || err.Error() != "Invalid handler ID" {
		t.Fatalf("err = %v, want server message", err)
	}
}

func TestServerErrorFallbackMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetExpense(context.Background(), 1)
	if err == nil || err.Error() != "Failed to get expense" {
		t.Fatalf("err = %v", err)
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	log := zerolog.Nop()
	c := NewClient("http://127.0.0.1:1", "k", time.Second, &log)

	_, err := c.GetOrder(context.Background(), 1)
	if err == nil {
		t.Fatal("expected network error")
	}
	want := "Network error: cannot reach order system at http://127.0.0.1:1"
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}
