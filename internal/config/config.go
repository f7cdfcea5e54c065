// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// UserMapping is one static row mapping a Telegram sender to an order-system
// user. Loaded once at startup, read-only afterwards.
type UserMapping struct {
	TelegramID int64  `yaml:"telegram_id"`
	UserID     int    `yaml:"user_id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
}

type BotConfig struct {
	Token              string        `yaml:"token"`
	Workers            int           `yaml:"workers"` // polling workers
	AdminIDs           []int64       `yaml:"admin_ids"`
	Users              []UserMapping `yaml:"users"`
	NotificationChatID int64         `yaml:"notification_chat_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AIConfig struct {
	Provider    string  `yaml:"provider"` // openai | gemini | compat
	OpenAIKey   string  `yaml:"openai_key"`
	GeminiKey   string  `yaml:"gemini_key"`
	BaseURL     string  `yaml:"base_url"` // for compat (OpenAI-compatible gateways)
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type OrderSystemConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type WebhookConfig struct {
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

type ConversationConfig struct {
	Store         string        `yaml:"store"` // memory | redis
	HistoryCap    int           `yaml:"history_cap"`
	ContextWindow int           `yaml:"context_window"` // messages handed to the resolver
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Log          LogConfig          `yaml:"log"`
	AI           AIConfig           `yaml:"ai"`
	OrderSystem  OrderSystemConfig  `yaml:"order_system"`
	Webhook      WebhookConfig      `yaml:"webhook"`
	Conversation ConversationConfig `yaml:"conversation"`
	Redis        RedisConfig        `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, expands ${ENV} references, applies defaults
// and fails fast when a required secret or URL is missing.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.Temperature <= 0 {
		cfg.AI.Temperature = 0.4
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 250
	}
	if cfg.OrderSystem.Timeout <= 0 {
		cfg.OrderSystem.Timeout = 30 * time.Second
	}
	if cfg.Webhook.Port == 0 {
		cfg.Webhook.Port = 3001
	}
	if cfg.Conversation.Store == "" {
		cfg.Conversation.Store = "memory"
	}
	if cfg.Conversation.HistoryCap <= 0 {
		cfg.Conversation.HistoryCap = 6
	}
	if cfg.Conversation.ContextWindow <= 0 {
		cfg.Conversation.ContextWindow = 4
	}
	if cfg.Conversation.TTL <= 0 {
		cfg.Conversation.TTL = 30 * time.Minute
	}
	if cfg.Conversation.SweepInterval <= 0 {
		cfg.Conversation.SweepInterval = 10 * time.Minute
	}

	// Minimal validation: the process must not start handling traffic with a
	// missing secret or endpoint.
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.OrderSystem.URL == "" {
		return nil, errors.New("order_system.url is required")
	}
	if cfg.OrderSystem.APIKey == "" {
		return nil, errors.New("order_system.api_key is required")
	}
	if cfg.Webhook.Secret == "" {
		return nil, errors.New("webhook.secret is required")
	}
	switch cfg.AI.Provider {
	case "openai", "compat":
		if cfg.AI.OpenAIKey == "" {
			return nil, errors.New("ai.openai_key is required for provider " + cfg.AI.Provider)
		}
	case "gemini":
		if cfg.AI.GeminiKey == "" {
			return nil, errors.New("ai.gemini_key is required for provider gemini")
		}
	default:
		return nil, fmt.Errorf("unknown ai.provider %q", cfg.AI.Provider)
	}
	if cfg.Conversation.Store == "redis" && cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required when conversation.store is redis")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
