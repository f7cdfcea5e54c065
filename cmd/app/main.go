// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-orderdesk-bot/internal/application"
	"telegram-orderdesk-bot/internal/config"
	"telegram-orderdesk-bot/internal/currency"
	"telegram-orderdesk-bot/internal/domain"
	"telegram-orderdesk-bot/internal/domain/ports/adapter"
	"telegram-orderdesk-bot/internal/domain/ports/repository"
	aiAdapters "telegram-orderdesk-bot/internal/infra/adapters/ai"
	tele "telegram-orderdesk-bot/internal/infra/adapters/telegram"
	"telegram-orderdesk-bot/internal/infra/logging"
	"telegram-orderdesk-bot/internal/infra/memory"
	"telegram-orderdesk-bot/internal/infra/orderapi"
	red "telegram-orderdesk-bot/internal/infra/redis"
	"telegram-orderdesk-bot/internal/infra/sched"
	"telegram-orderdesk-bot/internal/infra/web"
	"telegram-orderdesk-bot/internal/infra/worker"
	"telegram-orderdesk-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, debug level)")
	flag.Parse()

	// .env is optional; config values reference its entries via ${ENV}.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Identity directory ----
	users := make([]domain.SystemUser, 0, len(cfg.Bot.Users))
	for _, u := range cfg.Bot.Users {
		users = append(users, domain.SystemUser{
			TelegramID: u.TelegramID,
			UserID:     u.UserID,
			Name:       u.Name,
			Email:      u.Email,
		})
	}
	directory := domain.NewDirectory(users, cfg.Bot.AdminIDs)

	// ---- Conversation store ----
	var convRepo repository.ConversationRepository
	switch cfg.Conversation.Store {
	case "redis":
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		convRepo = red.NewConversationRepo(redisClient, cfg.Conversation.TTL, cfg.Conversation.HistoryCap)
		logger.Info().Str("store", "redis").Msg("conversation store ready")
	default:
		convRepo = memory.NewConversationRepo(cfg.Conversation.HistoryCap)
		logger.Info().Str("store", "memory").Msg("conversation store ready")
	}

	// ---- Classifier ----
	var classifier adapter.Classifier
	switch cfg.AI.Provider {
	case "gemini":
		classifier, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.MaxTokens)
	case "compat":
		classifier, err = aiAdapters.NewCompatAdapter(cfg.AI.OpenAIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Temperature, cfg.AI.MaxTokens)
	default:
		classifier, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.Model, cfg.AI.Temperature, cfg.AI.MaxTokens)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("classifier")
	}
	logger.Info().Str("provider", classifier.Provider()).Str("model", classifier.Model()).Msg("classifier ready")

	// ---- Order system client ----
	orderClient := orderapi.NewClient(cfg.OrderSystem.URL, cfg.OrderSystem.APIKey, cfg.OrderSystem.Timeout, logger)

	// ---- Use cases ----
	engine := currency.NewEngine(currency.StaticRates{})
	resolver := usecase.NewIntentResolver(classifier, logger)
	orders := usecase.NewOrderHandler(orderClient, convRepo, engine, directory, logger)
	expenses := usecase.NewExpenseHandler(orderClient, convRepo, logger)
	transfers := usecase.NewTransferHandler(orderClient, convRepo, logger)
	dialogue := usecase.NewDialogueOrchestrator(resolver, convRepo, orders, expenses, transfers, directory, cfg.Conversation.ContextWindow, logger)

	// ---- Worker pool ----
	pool := worker.NewPool(cfg.Bot.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Telegram ----
	facade := application.NewBotFacade(dialogue, nil)
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, cfg.Bot.Workers, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	notifier := usecase.NewNotifier(botAdapter, pool, cfg.Bot.NotificationChatID, logger)
	facade.Notifier = notifier

	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Webhook server ----
	srv := web.NewServer(notifier, cfg.Webhook.Port, cfg.Webhook.Secret, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("webhook server error")
		}
	}()

	// ---- Idle sweeper ----
	sweeper := sched.NewIdleSweeper(cfg.Conversation.SweepInterval, cfg.Conversation.TTL, convRepo, logger)
	go func() { _ = sweeper.Run(ctx) }()

	logger.Info().Msg("order system bot started")

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("webhook server shutdown")
	}
	cancel()
}
