package service

import (
	"context"
	"fmt"
	"time"

	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/store"
)

// usageWindow bounds the dashboard's usage aggregation.
const usageWindow = 30 * 24 * time.Hour

// recentItems is how many latest entries of each kind the dashboard shows.
const recentItems = 5

type DashboardStats struct {
	ChatMessages int64
	CodeReviews  int64
	Suggestions  int64
	Usage        model.UsageTotals

	RecentSessions    []model.ChatSession
	RecentReviews     []model.CodeReview
	RecentSuggestions []model.ProjectSuggestion
}

type StatsService interface {
	Dashboard(ctx context.Context, userID int64) (*DashboardStats, error)
}

type statsService struct {
	chatStore       store.ChatStore
	reviewStore     store.ReviewStore
	suggestionStore store.SuggestionStore
	usageStore      store.UsageStore
}

func NewStatsService(
	chatStore store.ChatStore,
	reviewStore store.ReviewStore,
	suggestionStore store.SuggestionStore,
	usageStore store.UsageStore,
) StatsService {
	return &statsService{
		chatStore:       chatStore,
		reviewStore:     reviewStore,
		suggestionStore: suggestionStore,
		usageStore:      usageStore,
	}
}

func (s *statsService) Dashboard(ctx context.Context, userID int64) (*DashboardStats, error) {
	messages, err := s.chatStore.CountMessagesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting chat messages: %w", err)
	}

	reviews, err := s.reviewStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting code reviews: %w", err)
	}

	suggestions, err := s.suggestionStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting suggestions: %w", err)
	}

	usage, err := s.usageStore.TotalsByUser(ctx, userID, time.Now().Add(-usageWindow))
	if err != nil {
		return nil, fmt.Errorf("aggregating usage: %w", err)
	}

	recentSessions, err := s.chatStore.ListSessionsByUser(ctx, userID, recentItems)
	if err != nil {
		return nil, fmt.Errorf("listing recent chat sessions: %w", err)
	}

	recentReviews, err := s.reviewStore.ListByUser(ctx, userID, recentItems)
	if err != nil {
		return nil, fmt.Errorf("listing recent code reviews: %w", err)
	}

	recentSuggestions, err := s.suggestionStore.ListByUser(ctx, userID, recentItems)
	if err != nil {
		return nil, fmt.Errorf("listing recent suggestions: %w", err)
	}

	return &DashboardStats{
		ChatMessages:      messages,
		CodeReviews:       reviews,
		Suggestions:       suggestions,
		Usage:             *usage,
		RecentSessions:    recentSessions,
		RecentReviews:     recentReviews,
		RecentSuggestions: recentSuggestions,
	}, nil
}
