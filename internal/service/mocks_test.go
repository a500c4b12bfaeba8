package service_test

import (
	"context"
	"sync"
	"time"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
)

type mockChatStore struct {
	getSessionFn         func(ctx context.Context, id int64) (*model.ChatSession, error)
	getSessionForUserFn  func(ctx context.Context, id, userID int64) (*model.ChatSession, error)
	createSessionFn      func(ctx context.Context, session *model.ChatSession) error
	touchSessionFn       func(ctx context.Context, id int64) error
	deactivateSessionFn  func(ctx context.Context, id int64) error
	listSessionsByUserFn func(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error)
	createMessageFn      func(ctx context.Context, msg *model.ChatMessage) error
	listMessagesFn       func(ctx context.Context, chatSessionID int64, limit int) ([]model.ChatMessage, error)
	deleteMessagesFn     func(ctx context.Context, chatSessionID int64) error
	countMessagesFn      func(ctx context.Context, userID int64) (int64, error)

	mu              sync.Mutex
	createdMessages []model.ChatMessage
}

func (m *mockChatStore) GetSession(ctx context.Context, id int64) (*model.ChatSession, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChatStore) GetSessionForUser(ctx context.Context, id, userID int64) (*model.ChatSession, error) {
	if m.getSessionForUserFn != nil {
		return m.getSessionForUserFn(ctx, id, userID)
	}
	return &model.ChatSession{ID: id, UserID: userID, IsActive: true}, nil
}

func (m *mockChatStore) CreateSession(ctx context.Context, session *model.ChatSession) error {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, session)
	}
	return nil
}

func (m *mockChatStore) TouchSession(ctx context.Context, id int64) error {
	if m.touchSessionFn != nil {
		return m.touchSessionFn(ctx, id)
	}
	return nil
}

func (m *mockChatStore) DeactivateSession(ctx context.Context, id int64) error {
	if m.deactivateSessionFn != nil {
		return m.deactivateSessionFn(ctx, id)
	}
	return nil
}

func (m *mockChatStore) ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error) {
	if m.listSessionsByUserFn != nil {
		return m.listSessionsByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockChatStore) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	m.mu.Lock()
	m.createdMessages = append(m.createdMessages, *msg)
	m.mu.Unlock()
	if m.createMessageFn != nil {
		return m.createMessageFn(ctx, msg)
	}
	return nil
}

func (m *mockChatStore) ListMessages(ctx context.Context, chatSessionID int64, limit int) ([]model.ChatMessage, error) {
	if m.listMessagesFn != nil {
		return m.listMessagesFn(ctx, chatSessionID, limit)
	}
	return nil, nil
}

func (m *mockChatStore) DeleteMessages(ctx context.Context, chatSessionID int64) error {
	if m.deleteMessagesFn != nil {
		return m.deleteMessagesFn(ctx, chatSessionID)
	}
	return nil
}

func (m *mockChatStore) CountMessagesByUser(ctx context.Context, userID int64) (int64, error) {
	if m.countMessagesFn != nil {
		return m.countMessagesFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockChatStore) messages() []model.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChatMessage, len(m.createdMessages))
	copy(out, m.createdMessages)
	return out
}

type mockReviewStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.CodeReview, error)
	getForUserFn func(ctx context.Context, id, userID int64) (*model.CodeReview, error)
	createFn     func(ctx context.Context, review *model.CodeReview) error
	completeFn   func(ctx context.Context, id int64, result string, aiModel *string, promptTokens, completionTokens int) error
	markFailedFn func(ctx context.Context, id int64) error
	listByUserFn func(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error)
	countFn      func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockReviewStore) GetByID(ctx context.Context, id int64) (*model.CodeReview, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.CodeReview{ID: id, Status: model.ReviewStatusCompleted}, nil
}

func (m *mockReviewStore) GetForUser(ctx context.Context, id, userID int64) (*model.CodeReview, error) {
	if m.getForUserFn != nil {
		return m.getForUserFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockReviewStore) Create(ctx context.Context, review *model.CodeReview) error {
	if m.createFn != nil {
		return m.createFn(ctx, review)
	}
	return nil
}

func (m *mockReviewStore) Complete(ctx context.Context, id int64, result string, aiModel *string, promptTokens, completionTokens int) error {
	if m.completeFn != nil {
		return m.completeFn(ctx, id, result, aiModel, promptTokens, completionTokens)
	}
	return nil
}

func (m *mockReviewStore) MarkFailed(ctx context.Context, id int64) error {
	if m.markFailedFn != nil {
		return m.markFailedFn(ctx, id)
	}
	return nil
}

func (m *mockReviewStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockReviewStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

type mockSuggestionStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.ProjectSuggestion, error)
	getForUserFn func(ctx context.Context, id, userID int64) (*model.ProjectSuggestion, error)
	createFn     func(ctx context.Context, suggestion *model.ProjectSuggestion) error
	listByUserFn func(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error)
	countFn      func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockSuggestionStore) GetByID(ctx context.Context, id int64) (*model.ProjectSuggestion, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSuggestionStore) GetForUser(ctx context.Context, id, userID int64) (*model.ProjectSuggestion, error) {
	if m.getForUserFn != nil {
		return m.getForUserFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockSuggestionStore) Create(ctx context.Context, suggestion *model.ProjectSuggestion) error {
	if m.createFn != nil {
		return m.createFn(ctx, suggestion)
	}
	return nil
}

func (m *mockSuggestionStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockSuggestionStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

type mockUsageStore struct {
	createFn func(ctx context.Context, usage *model.ModelUsage) error
	totalsFn func(ctx context.Context, userID int64, since time.Time) (*model.UsageTotals, error)
}

func (m *mockUsageStore) Create(ctx context.Context, usage *model.ModelUsage) error {
	if m.createFn != nil {
		return m.createFn(ctx, usage)
	}
	return nil
}

func (m *mockUsageStore) TotalsByUser(ctx context.Context, userID int64, since time.Time) (*model.UsageTotals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx, userID, since)
	}
	return &model.UsageTotals{}, nil
}

type mockProducer struct {
	mu     sync.Mutex
	events []queue.UsageEvent
	err    error
}

func (m *mockProducer) Enqueue(ctx context.Context, event queue.UsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) enqueued() []queue.UsageEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]queue.UsageEvent, len(m.events))
	copy(out, m.events)
	return out
}

type mockProvider struct {
	name   string
	model  string
	sendFn func(ctx context.Context, req llm.Request) (*llm.Reply, error)
}

func (m *mockProvider) Send(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, req)
	}
	return &llm.Reply{
		Text:             "mock reply",
		Provider:         m.name,
		Model:            m.model,
		PromptTokens:     10,
		CompletionTokens: 20,
	}, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

type mockExtractor struct {
	enabled   bool
	extractFn func(ctx context.Context, req llm.ExtractRequest, result any) error
}

func (m *mockExtractor) Extract(ctx context.Context, req llm.ExtractRequest, result any) error {
	if m.extractFn != nil {
		return m.extractFn(ctx, req, result)
	}
	return llm.ErrNotConfigured
}

func (m *mockExtractor) Enabled() bool { return m.enabled }
