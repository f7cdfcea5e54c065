package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telegram-orderdesk-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Classifier = (*CompatAdapter)(nil)

// CompatAdapter implements the classifier port against any OpenAI-compatible
// gateway. Chat completions path is the same as OpenAI: /chat/completions.
// Authorization: Bearer <API_KEY>
type CompatAdapter struct {
	apiKey      string
	base        string // e.g. https://api.openai.com/v1
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func NewCompatAdapter(apiKey, model, base string, temperature float64, maxTokens int) (*CompatAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &CompatAdapter{
		apiKey:      apiKey,
		base:        strings.TrimRight(base, "/"),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *CompatAdapter) Provider() string { return "compat" }
func (c *CompatAdapter) Model() string    { return c.model }

func (c *CompatAdapter) Complete(ctx context.Context, messages []adapter.Message) (string, adapter.Usage, error) {
	// Build the request using the shared adapter.Message with JSON tags
	reqBody := struct {
		Model          string            `json:"model"`
		Messages       []adapter.Message `json:"messages"`
		Temperature    float64           `json:"temperature,omitempty"`
		MaxTokens      int               `json:"max_tokens,omitempty"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}{Model: c.model, Messages: messages, Temperature: c.temperature, MaxTokens: c.maxTokens}
	reqBody.ResponseFormat.Type = "json_object"

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", adapter.Usage{}, fmt.Errorf("chat completions http %d", resp.StatusCode)
	}
	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", adapter.Usage{}, err
	}
	usage := adapter.Usage{
		PromptTokens:     payload.Usage.PromptTokens,
		CompletionTokens: payload.Usage.CompletionTokens,
		TotalTokens:      payload.Usage.TotalTokens,
	}
	for _, ch := range payload.Choices {
		if ch.Message.Content != "" {
			return ch.Message.Content, usage, nil
		}
	}
	return "", usage, errors.New("no choice content")
}
