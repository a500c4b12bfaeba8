package worker

import (
	"context"
	"fmt"
	"log/slog"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

// Processor handles one usage-event message.
type Processor interface {
	Process(ctx context.Context, msg queue.Message) error
}

type usageProcessor struct {
	usageStore store.UsageStore
}

func NewUsageProcessor(usageStore store.UsageStore) Processor {
	return &usageProcessor{usageStore: usageStore}
}

func (p *usageProcessor) Process(ctx context.Context, msg queue.Message) error {
	event := msg.Event

	// Continue the trace that produced this event, if any.
	if event.TraceID != nil {
		sc := logger.StartSpanFromTraceID(ctx, *event.TraceID, "worker.usage.process")
		defer sc.End()
		ctx = sc.Context()
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "assistant.worker.usage",
		UserID:    logger.Ptr(event.UserID),
		Provider:  logger.Ptr(event.Provider),
		Feature:   logger.Ptr(event.Feature),
		MessageID: logger.Ptr(msg.ID),
	})

	usage := &model.ModelUsage{
		ID:               id.New(),
		UserID:           event.UserID,
		Provider:         event.Provider,
		ModelName:        event.Model,
		PromptTokens:     event.PromptTokens,
		CompletionTokens: event.CompletionTokens,
		Feature:          event.Feature,
		ChatSessionID:    event.ChatSessionID,
		DurationMS:       event.DurationMS,
	}

	if err := p.usageStore.Create(ctx, usage); err != nil {
		return fmt.Errorf("inserting usage row: %w", err)
	}

	slog.InfoContext(ctx, "usage recorded",
		"usage_id", usage.ID,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens)
	return nil
}
