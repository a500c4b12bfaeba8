package llm

import (
	"context"
	"errors"
)

// Provider name constants.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ErrNotConfigured is returned by Send when the provider was constructed
// without credentials. No network I/O is attempted. The orchestrator treats
// it like any other provider failure, so "no key" and "provider down" take
// the same fallback path.
var ErrNotConfigured = errors.New("not configured")

// Message is one prior turn handed to a provider for multi-turn context.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request is a single completion request.
type Request struct {
	SystemPrompt string
	Message      string    // the current user message
	History      []Message // chronological prior turns; empty for first-tier calls
	MaxTokens    int
	Temperature  *float64 // nil = model default
}

// Reply is a successful completion.
type Reply struct {
	Text             string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Provider sends a chat completion to one external AI backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	Send(ctx context.Context, req Request) (*Reply, error)
	Name() string
	Model() string
}

// Config holds provider client configuration. APIKey may be empty; the
// resulting client reports ErrNotConfigured from Send.
type Config struct {
	APIKey  string
	BaseURL string // optional custom endpoint
	Model   string
}

// Temp returns a pointer for explicit temperatures.
func Temp(t float64) *float64 {
	return &t
}

// FailureReason maps a Send error to a stable reason label for logs and
// telemetry. The caller-facing contract never changes based on the reason;
// this only feeds observability.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "provider_error"
	}
}
