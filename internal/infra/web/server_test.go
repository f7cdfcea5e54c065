// File: internal/infra/web/server_test.go
package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/infra/metrics"
	"telegram-orderdesk-bot/internal/usecase"
)

// ---- Fakes ----

type fakeBot struct {
	sent []string
}

func (f *fakeBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTestServer(bot *fakeBot) *Server {
	log := zerolog.Nop()
	notifier := usecase.NewNotifier(bot, nil, 42, &log)
	return NewServer(notifier, 0, "top-secret", &log)
}

func do(s *Server, method, path, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	bot := &fakeBot{}
	s := newTestServer(bot)

	for _, secret := range []string{"", "wrong"} {
		rec := do(s, http.MethodPost, "/webhook/notification", secret, `{"type":"order_created","title":"T","message":"M"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("secret %q: status = %d, want 401", secret, rec.Code)
		}
	}
	if len(bot.sent) != 0 {
		t.Fatalf("notification pushed despite bad secret: %v", bot.sent)
	}
}

func TestWebhookPushesNotification(t *testing.T) {
	bot := &fakeBot{}
	s := newTestServer(bot)

	rec := do(s, http.MethodPost, "/webhook/notification", "top-secret",
		`{"type":"order_created","title":"New Order","message":"Order for Kevin","entityType":"order","entityId":120}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0], "New Order") {
		t.Fatalf("sent = %v", bot.sent)
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	bot := &fakeBot{}
	s := newTestServer(bot)

	rec := do(s, http.MethodPost, "/webhook/notification", "top-secret", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(bot.sent) != 0 {
		t.Fatal("notification pushed from malformed payload")
	}
}

func TestWebhookBatch(t *testing.T) {
	bot := &fakeBot{}
	s := newTestServer(bot)

	rec := do(s, http.MethodPost, "/webhook/notifications", "top-secret",
		`[{"type":"order_created","title":"A","message":"m"},{"type":"expense_created","title":"B","message":"m"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"pushed":2`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if len(bot.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(bot.sent))
	}
}

func TestMetricsExposesCustomCollectors(t *testing.T) {
	s := newTestServer(&fakeBot{})
	metrics.IncTurn("ok")
	metrics.IncWebhookUnauthorized()

	rec := do(s, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"bot_turns_total", "webhook_unauthorized_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics body missing %s", name)
		}
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeBot{})

	rec := do(s, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
