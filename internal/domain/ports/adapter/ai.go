package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Usage for a single classifier call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Classifier is the port for the NL model that turns free-form chat into a
// structured decision. Implementations return the raw model output; parsing
// into the Decision shape happens in the resolver.
type Classifier interface {
	// Complete submits the prompt and returns the assistant text plus usage
	// as reported by the provider (zero values when not available).
	Complete(ctx context.Context, messages []Message) (string, Usage, error)

	// Provider and Model name the backend for logs and metrics.
	Provider() string
	Model() string
}
