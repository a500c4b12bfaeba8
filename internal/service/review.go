package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/core/config"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

var ErrReviewNotFound = errors.New("code review not found")

type ReviewService interface {
	Submit(ctx context.Context, userID int64, title, language, code string) (*model.CodeReview, error)
	Get(ctx context.Context, reviewID, userID int64) (*model.CodeReview, error)
	List(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error)
}

type reviewService struct {
	reviewStore store.ReviewStore
	producer    queue.Producer
	providers   []llm.Provider
	personality assistant.Personality
	cfg         config.AssistantConfig
}

func NewReviewService(
	reviewStore store.ReviewStore,
	producer queue.Producer,
	providers []llm.Provider,
	personality assistant.Personality,
	cfg config.AssistantConfig,
) ReviewService {
	return &reviewService{
		reviewStore: reviewStore,
		producer:    producer,
		providers:   providers,
		personality: personality,
		cfg:         cfg,
	}
}

// Submit stores the snippet as pending, runs the review, and completes the
// row with the result. The review always completes with some text; when no
// provider is reachable the canned review is stored with no model attached.
func (s *reviewService) Submit(ctx context.Context, userID int64, title, language, code string) (*model.CodeReview, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:  logger.Ptr(userID),
		Feature: logger.Ptr(model.FeatureCodeReview),
	})

	review := &model.CodeReview{
		ID:           id.New(),
		UserID:       userID,
		Title:        title,
		Language:     language,
		OriginalCode: code,
		Status:       model.ReviewStatusPending,
	}
	if err := s.reviewStore.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("creating code review: %w", err)
	}

	// Reviews are one-shot: each gets a fresh conversation.
	recorder := newUsageRecorder(s.producer, userID, model.FeatureCodeReview)
	orch := assistant.New(s.personality, assistant.NewHistory(), s.providers,
		assistant.WithRecorder(recorder),
		assistant.WithHistoryWindow(s.cfg.HistoryWindow),
		assistant.WithProviderTimeout(s.cfg.ProviderTimeout),
		assistant.WithMaxTokens(s.cfg.MaxTokens),
	)

	result := orch.ReviewCode(ctx, code, language)
	outcome := recorder.lastOutcome()

	var aiModel *string
	if !outcome.Canned {
		aiModel = &outcome.Model
	}

	if err := s.reviewStore.Complete(ctx, review.ID, result, aiModel,
		outcome.PromptTokens, outcome.CompletionTokens); err != nil {
		slog.ErrorContext(ctx, "failed to complete code review",
			"error", err, "review_id", review.ID)
		if failErr := s.reviewStore.MarkFailed(ctx, review.ID); failErr != nil {
			slog.ErrorContext(ctx, "failed to mark review failed",
				"error", failErr, "review_id", review.ID)
		}
		return nil, fmt.Errorf("completing code review: %w", err)
	}

	completed, err := s.reviewStore.GetByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading code review: %w", err)
	}
	return completed, nil
}

func (s *reviewService) Get(ctx context.Context, reviewID, userID int64) (*model.CodeReview, error) {
	review, err := s.reviewStore.GetForUser(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("getting code review: %w", err)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error) {
	if limit <= 0 {
		limit = 20
	}
	reviews, err := s.reviewStore.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing code reviews: %w", err)
	}
	return reviews, nil
}
