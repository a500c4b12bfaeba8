package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

var _ = Describe("StatsService", func() {
	var (
		ctx             context.Context
		chatStore       *mockChatStore
		reviewStore     *mockReviewStore
		suggestionStore *mockSuggestionStore
		usageStore      *mockUsageStore
		svc             service.StatsService
	)

	const userID = int64(100)

	BeforeEach(func() {
		ctx = context.Background()
		chatStore = &mockChatStore{}
		reviewStore = &mockReviewStore{}
		suggestionStore = &mockSuggestionStore{}
		usageStore = &mockUsageStore{}
		svc = service.NewStatsService(chatStore, reviewStore, suggestionStore, usageStore)
	})

	It("aggregates per-user counts and usage totals", func() {
		chatStore.countMessagesFn = func(ctx context.Context, userID int64) (int64, error) { return 42, nil }
		reviewStore.countFn = func(ctx context.Context, userID int64) (int64, error) { return 7, nil }
		suggestionStore.countFn = func(ctx context.Context, userID int64) (int64, error) { return 3, nil }
		usageStore.totalsFn = func(ctx context.Context, userID int64, since time.Time) (*model.UsageTotals, error) {
			Expect(since).To(BeTemporally("<", time.Now()))
			return &model.UsageTotals{Calls: 50, PromptTokens: 1000, CompletionTokens: 2000}, nil
		}

		stats, err := svc.Dashboard(ctx, userID)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.ChatMessages).To(Equal(int64(42)))
		Expect(stats.CodeReviews).To(Equal(int64(7)))
		Expect(stats.Suggestions).To(Equal(int64(3)))
		Expect(stats.Usage.Calls).To(Equal(int64(50)))
	})

	It("includes the five most recent items of each kind", func() {
		chatStore.listSessionsByUserFn = func(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error) {
			Expect(limit).To(Equal(5))
			return []model.ChatSession{{ID: 11, Title: "最近のチャット"}}, nil
		}
		reviewStore.listByUserFn = func(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error) {
			Expect(limit).To(Equal(5))
			return []model.CodeReview{{ID: 21, Title: "最近のレビュー"}}, nil
		}
		suggestionStore.listByUserFn = func(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error) {
			Expect(limit).To(Equal(5))
			return []model.ProjectSuggestion{{ID: 31, Title: "最近の提案"}}, nil
		}

		stats, err := svc.Dashboard(ctx, userID)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.RecentSessions).To(HaveLen(1))
		Expect(stats.RecentSessions[0].ID).To(Equal(int64(11)))
		Expect(stats.RecentReviews).To(HaveLen(1))
		Expect(stats.RecentReviews[0].Title).To(Equal("最近のレビュー"))
		Expect(stats.RecentSuggestions).To(HaveLen(1))
		Expect(stats.RecentSuggestions[0].ID).To(Equal(int64(31)))
	})

	It("propagates store errors", func() {
		reviewStore.countFn = func(ctx context.Context, userID int64) (int64, error) {
			return 0, errors.New("db down")
		}

		_, err := svc.Dashboard(ctx, userID)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("db down"))
	})
})
