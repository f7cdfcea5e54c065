// File: internal/infra/web/server.go
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-orderdesk-bot/internal/domain/model"
	"telegram-orderdesk-bot/internal/infra/metrics"
	"telegram-orderdesk-bot/internal/usecase"
)

// Server receives order-system webhooks and exposes health and metrics.
type Server struct {
	notifier *usecase.Notifier
	secret   string
	srv      *http.Server
	log      *zerolog.Logger
}

func NewServer(notifier *usecase.Notifier, port int, secret string, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "WebhookServer").Logger()
	s := &Server{notifier: notifier, secret: secret, log: &l}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Post("/webhook/notification", s.handleNotification)
	r.Post("/webhook/notifications", s.handleNotificationBatch)
	r.Get("/health", s.handleHealth)
	metrics.MustRegister()
	r.Handle("/metrics", promhttp.Handler())
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start blocks serving until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("webhook server listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.secret)) != 1 {
		metrics.IncWebhookUnauthorized()
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("unauthorized webhook attempt")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	var notif model.Notification
	if err := json.NewDecoder(r.Body).Decode(&notif); err != nil {
		s.log.Warn().Err(err).Msg("malformed webhook payload")
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid payload"})
		return
	}

	s.log.Info().Str("type", notif.Type).Int("entity_id", notif.EntityID).Msg("received notification webhook")

	if err := s.notifier.Push(r.Context(), notif); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to push notification"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification pushed to Telegram"})
}

// handleNotificationBatch accepts an array payload and reports how many
// notifications were delivered.
func (s *Server) handleNotificationBatch(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.secret)) != 1 {
		metrics.IncWebhookUnauthorized()
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("unauthorized webhook attempt")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	var notifs []model.Notification
	if err := json.NewDecoder(r.Body).Decode(&notifs); err != nil {
		s.log.Warn().Err(err).Msg("malformed webhook payload")
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid payload"})
		return
	}

	pushed := s.notifier.PushBatch(r.Context(), notifs)
	s.log.Info().Int("received", len(notifs)).Int("pushed", pushed).Msg("received notification batch")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "pushed": pushed, "received": len(notifs)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "telegram-bot-webhook"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
