package service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

// turnRecorder persists chat turns and enqueues usage events as the
// orchestrator produces them. Persistence failures are logged, never
// surfaced: the user already has their reply.
type turnRecorder struct {
	chatStore store.ChatStore
	producer  queue.Producer
	userID    int64
	sessionID int64

	mu      sync.Mutex
	feature string
	last    assistant.Outcome
}

func newTurnRecorder(chatStore store.ChatStore, producer queue.Producer, userID, sessionID int64) *turnRecorder {
	return &turnRecorder{
		chatStore: chatStore,
		producer:  producer,
		userID:    userID,
		sessionID: sessionID,
	}
}

func (r *turnRecorder) RecordUserTurn(ctx context.Context, turn assistant.Turn) {
	r.mu.Lock()
	r.feature = featureForContext(turn.Metadata["context"])
	r.mu.Unlock()

	msg := &model.ChatMessage{
		ID:            id.New(),
		ChatSessionID: r.sessionID,
		Role:          turn.Role,
		Content:       turn.Content,
		Metadata:      turn.Metadata,
	}
	if err := r.chatStore.CreateMessage(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to persist user turn",
			"error", err, "chat_session_id", r.sessionID)
	}
}

func (r *turnRecorder) RecordAssistantTurn(ctx context.Context, turn assistant.Turn, outcome assistant.Outcome) {
	r.mu.Lock()
	r.last = outcome
	feature := r.feature
	r.mu.Unlock()

	msg := &model.ChatMessage{
		ID:               id.New(),
		ChatSessionID:    r.sessionID,
		Role:             turn.Role,
		Content:          turn.Content,
		Metadata:         turn.Metadata,
		PromptTokens:     outcome.PromptTokens,
		CompletionTokens: outcome.CompletionTokens,
		ResponseTimeMS:   outcome.Duration.Milliseconds(),
	}
	if !outcome.Canned {
		msg.AIModel = &outcome.Model
	}
	if err := r.chatStore.CreateMessage(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to persist assistant turn",
			"error", err, "chat_session_id", r.sessionID)
	}

	if outcome.Canned || r.producer == nil {
		return
	}

	sessionID := r.sessionID
	event := queue.UsageEvent{
		UserID:           r.userID,
		Provider:         outcome.Provider,
		Model:            outcome.Model,
		PromptTokens:     outcome.PromptTokens,
		CompletionTokens: outcome.CompletionTokens,
		Feature:          feature,
		ChatSessionID:    &sessionID,
		DurationMS:       outcome.Duration.Milliseconds(),
		TraceID:          traceIDFromContext(ctx),
	}
	if err := r.producer.Enqueue(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue usage event",
			"error", err, "chat_session_id", r.sessionID)
	}
}

// lastOutcome returns the outcome of the most recent assistant turn. Turns
// within a session are serialized, so right after a HandleTurn call this is
// the outcome of that call.
func (r *turnRecorder) lastOutcome() assistant.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// usageRecorder only accounts usage, for one-shot features that persist
// their own result rows (reviews, suggestions).
type usageRecorder struct {
	producer queue.Producer
	userID   int64
	feature  string

	mu   sync.Mutex
	last assistant.Outcome
}

func newUsageRecorder(producer queue.Producer, userID int64, feature string) *usageRecorder {
	return &usageRecorder{
		producer: producer,
		userID:   userID,
		feature:  feature,
	}
}

func (r *usageRecorder) RecordUserTurn(ctx context.Context, turn assistant.Turn) {}

func (r *usageRecorder) RecordAssistantTurn(ctx context.Context, turn assistant.Turn, outcome assistant.Outcome) {
	r.mu.Lock()
	r.last = outcome
	r.mu.Unlock()

	if outcome.Canned || r.producer == nil {
		return
	}

	event := queue.UsageEvent{
		UserID:           r.userID,
		Provider:         outcome.Provider,
		Model:            outcome.Model,
		PromptTokens:     outcome.PromptTokens,
		CompletionTokens: outcome.CompletionTokens,
		Feature:          r.feature,
		DurationMS:       outcome.Duration.Milliseconds(),
		TraceID:          traceIDFromContext(ctx),
	}
	if err := r.producer.Enqueue(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue usage event",
			"error", err, "feature", r.feature)
	}
}

func (r *usageRecorder) lastOutcome() assistant.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func featureForContext(contextKind string) string {
	switch assistant.ParseContextKind(contextKind) {
	case assistant.KindCodeReview:
		return model.FeatureCodeReview
	case assistant.KindSuggestion:
		return model.FeatureSuggestion
	default:
		return model.FeatureChat
	}
}

func traceIDFromContext(ctx context.Context) *string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return nil
	}
	traceID := sc.TraceID().String()
	return &traceID
}
