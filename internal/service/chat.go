package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/core/config"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

var ErrChatSessionNotFound = errors.New("chat session not found")

const (
	defaultSessionTitle = "新しいチャット"

	// How many persisted messages to replay when a session's in-memory
	// history is rebuilt after a restart.
	historyRebuildLimit = 50
)

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Reply    string
	Provider string
	Model    string
	Canned   bool
}

type ChatService interface {
	CreateSession(ctx context.Context, userID int64, title string) (*model.ChatSession, error)
	ListSessions(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error)
	SessionMessages(ctx context.Context, sessionID, userID int64, limit int) (*model.ChatSession, []model.ChatMessage, error)
	SendMessage(ctx context.Context, sessionID, userID int64, message string, kind assistant.ContextKind) (*ChatReply, error)
	ClearHistory(ctx context.Context, sessionID, userID int64) error
	EndSession(ctx context.Context, sessionID, userID int64) error
}

type chatService struct {
	chatStore   store.ChatStore
	producer    queue.Producer
	providers   []llm.Provider
	personality assistant.Personality
	cfg         config.AssistantConfig

	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

type sessionEntry struct {
	orchestrator *assistant.Orchestrator
	recorder     *turnRecorder
}

func NewChatService(
	chatStore store.ChatStore,
	producer queue.Producer,
	providers []llm.Provider,
	personality assistant.Personality,
	cfg config.AssistantConfig,
) ChatService {
	return &chatService{
		chatStore:   chatStore,
		producer:    producer,
		providers:   providers,
		personality: personality,
		cfg:         cfg,
		entries:     make(map[int64]*sessionEntry),
	}
}

func (s *chatService) CreateSession(ctx context.Context, userID int64, title string) (*model.ChatSession, error) {
	if title == "" {
		title = defaultSessionTitle
	}

	session := &model.ChatSession{
		ID:       id.New(),
		UserID:   userID,
		Title:    title,
		IsActive: true,
	}
	if err := s.chatStore.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return session, nil
}

func (s *chatService) ListSessions(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error) {
	if limit <= 0 {
		limit = 20
	}
	sessions, err := s.chatStore.ListSessionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	return sessions, nil
}

func (s *chatService) SessionMessages(ctx context.Context, sessionID, userID int64, limit int) (*model.ChatSession, []model.ChatMessage, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = historyRebuildLimit
	}
	messages, err := s.chatStore.ListMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("listing chat messages: %w", err)
	}
	return session, messages, nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionID, userID int64, message string, kind assistant.ContextKind) (*ChatReply, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:        logger.Ptr(userID),
		ChatSessionID: logger.Ptr(sessionID),
	})

	entry, err := s.entryFor(ctx, session)
	if err != nil {
		return nil, err
	}

	reply := entry.orchestrator.HandleTurn(ctx, message, kind)
	outcome := entry.recorder.lastOutcome()

	// Bumps the session's updated_at so listings sort by recent activity.
	_ = s.chatStore.TouchSession(ctx, sessionID)

	return &ChatReply{
		Reply:    reply,
		Provider: outcome.Provider,
		Model:    outcome.Model,
		Canned:   outcome.Canned,
	}, nil
}

func (s *chatService) ClearHistory(ctx context.Context, sessionID, userID int64) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.chatStore.DeleteMessages(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting chat messages: %w", err)
	}

	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	s.mu.Unlock()
	if ok {
		entry.orchestrator.History().Clear()
	}
	return nil
}

func (s *chatService) EndSession(ctx context.Context, sessionID, userID int64) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.chatStore.DeactivateSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrChatSessionNotFound
		}
		return fmt.Errorf("deactivating chat session: %w", err)
	}

	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *chatService) ownedSession(ctx context.Context, sessionID, userID int64) (*model.ChatSession, error) {
	session, err := s.chatStore.GetSessionForUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("getting chat session: %w", err)
	}
	return session, nil
}

// entryFor returns the session's live orchestrator, rebuilding the in-memory
// history from persisted messages on first use.
func (s *chatService) entryFor(ctx context.Context, session *model.ChatSession) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[session.ID]; ok {
		return entry, nil
	}

	messages, err := s.chatStore.ListMessages(ctx, session.ID, historyRebuildLimit)
	if err != nil {
		return nil, fmt.Errorf("rebuilding chat history: %w", err)
	}

	turns := make([]assistant.Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, assistant.Turn{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
			Metadata:  msg.Metadata,
		})
	}

	recorder := newTurnRecorder(s.chatStore, s.producer, session.UserID, session.ID)
	entry := &sessionEntry{
		orchestrator: assistant.New(s.personality, assistant.NewHistoryFromTurns(turns), s.providers,
			assistant.WithRecorder(recorder),
			assistant.WithHistoryWindow(s.cfg.HistoryWindow),
			assistant.WithProviderTimeout(s.cfg.ProviderTimeout),
			assistant.WithMaxTokens(s.cfg.MaxTokens),
		),
		recorder: recorder,
	}
	s.entries[session.ID] = entry
	return entry, nil
}
