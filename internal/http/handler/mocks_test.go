package handler_test

import (
	"context"

	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

// asUser simulates RequireAuth for handler tests.
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

type mockChatService struct {
	createSessionFn   func(ctx context.Context, userID int64, title string) (*model.ChatSession, error)
	listSessionsFn    func(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error)
	sessionMessagesFn func(ctx context.Context, sessionID, userID int64, limit int) (*model.ChatSession, []model.ChatMessage, error)
	sendMessageFn     func(ctx context.Context, sessionID, userID int64, message string, kind assistant.ContextKind) (*service.ChatReply, error)
	clearHistoryFn    func(ctx context.Context, sessionID, userID int64) error
	endSessionFn      func(ctx context.Context, sessionID, userID int64) error
}

func (m *mockChatService) CreateSession(ctx context.Context, userID int64, title string) (*model.ChatSession, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, userID, title)
	}
	return &model.ChatSession{ID: 1, UserID: userID, Title: title, IsActive: true}, nil
}

func (m *mockChatService) ListSessions(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockChatService) SessionMessages(ctx context.Context, sessionID, userID int64, limit int) (*model.ChatSession, []model.ChatMessage, error) {
	if m.sessionMessagesFn != nil {
		return m.sessionMessagesFn(ctx, sessionID, userID, limit)
	}
	return &model.ChatSession{ID: sessionID, UserID: userID}, nil, nil
}

func (m *mockChatService) SendMessage(ctx context.Context, sessionID, userID int64, message string, kind assistant.ContextKind) (*service.ChatReply, error) {
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, sessionID, userID, message, kind)
	}
	return &service.ChatReply{Reply: "ok"}, nil
}

func (m *mockChatService) ClearHistory(ctx context.Context, sessionID, userID int64) error {
	if m.clearHistoryFn != nil {
		return m.clearHistoryFn(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockChatService) EndSession(ctx context.Context, sessionID, userID int64) error {
	if m.endSessionFn != nil {
		return m.endSessionFn(ctx, sessionID, userID)
	}
	return nil
}

type mockReviewService struct {
	submitFn func(ctx context.Context, userID int64, title, language, code string) (*model.CodeReview, error)
	getFn    func(ctx context.Context, reviewID, userID int64) (*model.CodeReview, error)
	listFn   func(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error)
}

func (m *mockReviewService) Submit(ctx context.Context, userID int64, title, language, code string) (*model.CodeReview, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, userID, title, language, code)
	}
	return &model.CodeReview{ID: 1, UserID: userID, Status: model.ReviewStatusCompleted}, nil
}

func (m *mockReviewService) Get(ctx context.Context, reviewID, userID int64) (*model.CodeReview, error) {
	if m.getFn != nil {
		return m.getFn(ctx, reviewID, userID)
	}
	return nil, nil
}

func (m *mockReviewService) List(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockStatsService struct {
	dashboardFn func(ctx context.Context, userID int64) (*service.DashboardStats, error)
}

func (m *mockStatsService) Dashboard(ctx context.Context, userID int64) (*service.DashboardStats, error) {
	if m.dashboardFn != nil {
		return m.dashboardFn(ctx, userID)
	}
	return &service.DashboardStats{}, nil
}

type stubProvider struct {
	name  string
	model string
}

func (p stubProvider) Send(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	return nil, llm.ErrNotConfigured
}

func (p stubProvider) Name() string  { return p.name }
func (p stubProvider) Model() string { return p.model }

type mockSuggestionService struct {
	generateFn func(ctx context.Context, userID int64, projectInfo map[string]string) (*model.ProjectSuggestion, error)
	getFn      func(ctx context.Context, suggestionID, userID int64) (*model.ProjectSuggestion, error)
	listFn     func(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error)
}

func (m *mockSuggestionService) Generate(ctx context.Context, userID int64, projectInfo map[string]string) (*model.ProjectSuggestion, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, userID, projectInfo)
	}
	return &model.ProjectSuggestion{ID: 1, UserID: userID}, nil
}

func (m *mockSuggestionService) Get(ctx context.Context, suggestionID, userID int64) (*model.ProjectSuggestion, error) {
	if m.getFn != nil {
		return m.getFn(ctx, suggestionID, userID)
	}
	return nil, nil
}

func (m *mockSuggestionService) List(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}
