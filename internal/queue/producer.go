package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// UsageEvent is one AI call to be accounted asynchronously. Chat latency must
// not depend on the usage table, so the server enqueues and the worker writes.
type UsageEvent struct {
	UserID           int64
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Feature          string
	ChatSessionID    *int64
	DurationMS       int64
	TraceID          *string
	Attempt          int
}

type Producer interface {
	Enqueue(ctx context.Context, event UsageEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, event UsageEvent) error {
	attempt := event.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"user_id":           event.UserID,
		"provider":          event.Provider,
		"model":             event.Model,
		"prompt_tokens":     event.PromptTokens,
		"completion_tokens": event.CompletionTokens,
		"feature":           event.Feature,
		"duration_ms":       event.DurationMS,
		"attempt":           attempt,
	}

	if event.ChatSessionID != nil {
		fields["chat_session_id"] = *event.ChatSessionID
	}
	if event.TraceID != nil && *event.TraceID != "" {
		fields["trace_id"] = *event.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue usage event: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued usage event",
		"user_id", event.UserID, "provider", event.Provider, "feature", event.Feature, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
