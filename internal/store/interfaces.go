package store

import (
	"context"
	"errors"
	"time"

	"sistersaas.app/assistant/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

// SessionStore defines the contract for login session data access
type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) error
}

// ChatStore defines the contract for chat session and message data access
type ChatStore interface {
	GetSession(ctx context.Context, id int64) (*model.ChatSession, error)
	GetSessionForUser(ctx context.Context, id, userID int64) (*model.ChatSession, error)
	CreateSession(ctx context.Context, session *model.ChatSession) error
	TouchSession(ctx context.Context, id int64) error
	DeactivateSession(ctx context.Context, id int64) error
	ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]model.ChatSession, error)

	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	ListMessages(ctx context.Context, chatSessionID int64, limit int) ([]model.ChatMessage, error)
	DeleteMessages(ctx context.Context, chatSessionID int64) error
	CountMessagesByUser(ctx context.Context, userID int64) (int64, error)
}

// ReviewStore defines the contract for code review data access
type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (*model.CodeReview, error)
	GetForUser(ctx context.Context, id, userID int64) (*model.CodeReview, error)
	Create(ctx context.Context, review *model.CodeReview) error
	Complete(ctx context.Context, id int64, result string, aiModel *string, promptTokens, completionTokens int) error
	MarkFailed(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.CodeReview, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// SuggestionStore defines the contract for project suggestion data access
type SuggestionStore interface {
	GetByID(ctx context.Context, id int64) (*model.ProjectSuggestion, error)
	GetForUser(ctx context.Context, id, userID int64) (*model.ProjectSuggestion, error)
	Create(ctx context.Context, suggestion *model.ProjectSuggestion) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// UsageStore defines the contract for AI usage accounting
type UsageStore interface {
	Create(ctx context.Context, usage *model.ModelUsage) error
	TotalsByUser(ctx context.Context, userID int64, since time.Time) (*model.UsageTotals, error)
}
