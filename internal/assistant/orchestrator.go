package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/internal/model"
)

// Outcome describes which fallback tier produced an assistant turn.
// Canned outcomes carry no provider or token information.
type Outcome struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
	Canned           bool
}

// Recorder observes turns as the orchestrator appends them, so the calling
// layer can persist messages and account usage. Recorders must not block on
// user-facing latency budgets; failures are theirs to log.
type Recorder interface {
	RecordUserTurn(ctx context.Context, turn Turn)
	RecordAssistantTurn(ctx context.Context, turn Turn, outcome Outcome)
}

// Orchestrator drives one chat session: it composes the system prompt, walks
// the provider priority list, falls back to canned replies when every
// provider is unavailable, and keeps the conversation history ordered.
//
// HandleTurn is total: it always returns a reply and never an error. A chat
// user must always get some answer, even with every provider down.
type Orchestrator struct {
	personality   Personality
	history       *History
	providers     []llm.Provider
	recorder      Recorder
	historyWindow int
	timeout       time.Duration
	maxTokens     int

	// Serializes turns within this session so user/assistant pairs from
	// concurrent calls never interleave. Sessions are independent.
	mu sync.Mutex
}

type Option func(*Orchestrator)

// WithRecorder attaches a turn recorder (persistence, usage accounting).
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithHistoryWindow sets how many recent turns fallback providers receive.
func WithHistoryWindow(n int) Option {
	return func(o *Orchestrator) { o.historyWindow = n }
}

// WithProviderTimeout bounds a single provider attempt.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithMaxTokens caps provider completions.
func WithMaxTokens(n int) Option {
	return func(o *Orchestrator) { o.maxTokens = n }
}

// New creates an Orchestrator for one session. Providers are tried in the
// given order; an empty list is legal and always yields canned replies.
func New(personality Personality, history *History, providers []llm.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		personality:   personality,
		history:       history,
		providers:     providers,
		historyWindow: 10,
		timeout:       15 * time.Second,
		maxTokens:     1000,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// History exposes the session's conversation history.
func (o *Orchestrator) History() *History {
	return o.history
}

// HandleTurn records the user message, tries each provider in priority
// order, and returns the reply text. The first tier gets only the system
// prompt and the message; later tiers also get the recent history window to
// compensate for being the fallback path. On total exhaustion the canned
// reply for the context kind is returned. Never fails.
func (o *Orchestrator) HandleTurn(ctx context.Context, message string, kind ContextKind) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "assistant.orchestrator"})

	kind = ParseContextKind(string(kind))

	// Window captured before the current message is appended: the message is
	// sent separately, so providers must not see it twice.
	window := o.history.RecentWindow(o.historyWindow)

	userTurn := Turn{
		Role:      model.RoleUser,
		Content:   message,
		CreatedAt: time.Now(),
	}
	if kind != KindPlain {
		userTurn.Metadata = map[string]string{"context": string(kind)}
	}
	o.history.Append(userTurn)
	if o.recorder != nil {
		o.recorder.RecordUserTurn(ctx, userTurn)
	}

	systemPrompt := o.personality.SystemPrompt(kind)

	reply, outcome := o.tryProviders(ctx, message, systemPrompt, window, kind)

	assistantTurn := Turn{
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
		Metadata:  outcomeMetadata(outcome),
	}
	o.history.Append(assistantTurn)
	if o.recorder != nil {
		o.recorder.RecordAssistantTurn(ctx, assistantTurn, outcome)
	}

	return reply
}

func (o *Orchestrator) tryProviders(ctx context.Context, message, systemPrompt string, window []llm.Message, kind ContextKind) (string, Outcome) {
	for i, provider := range o.providers {
		req := llm.Request{
			SystemPrompt: systemPrompt,
			Message:      message,
			MaxTokens:    o.maxTokens,
		}
		if i > 0 {
			req.History = window
		}

		attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
		start := time.Now()
		result, err := provider.Send(attemptCtx, req)
		cancel()

		if err != nil {
			// Absorbed: failure selects the next tier, the caller never sees it.
			slog.WarnContext(ctx, "provider attempt failed",
				"provider", provider.Name(),
				"reason", llm.FailureReason(err),
				"error", err)
			continue
		}

		return result.Text, Outcome{
			Provider:         result.Provider,
			Model:            result.Model,
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
			Duration:         time.Since(start),
		}
	}

	slog.ErrorContext(ctx, "all providers exhausted, using canned reply", "context", string(kind))
	return o.personality.FallbackReply(kind), Outcome{Canned: true}
}

// ReviewCode formats a review instruction embedding the code and language
// and runs it as a code-review turn. Pure formatting plus delegation.
func (o *Orchestrator) ReviewCode(ctx context.Context, code, language string) string {
	if language == "" {
		language = "python"
	}

	message := fmt.Sprintf("言語: %s\nコード:\n```%s\n%s\n```", language, language, code)
	return o.HandleTurn(ctx, message, KindCodeReview)
}

// SuggestImprovement flattens the project info into a key-value listing and
// runs it as an improvement-suggestion turn.
func (o *Orchestrator) SuggestImprovement(ctx context.Context, projectInfo map[string]string) string {
	message := "プロジェクト情報:\n" + formatProjectInfo(projectInfo)
	return o.HandleTurn(ctx, message, KindSuggestion)
}

func formatProjectInfo(info map[string]string) string {
	keys := make([]string, 0, len(info))
	for key := range info {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("- %s: %s", key, info[key]))
	}
	return strings.Join(lines, "\n")
}

func outcomeMetadata(outcome Outcome) map[string]string {
	if outcome.Canned {
		return map[string]string{"fallback": "canned"}
	}
	return map[string]string{
		"provider": outcome.Provider,
		"model":    outcome.Model,
	}
}
