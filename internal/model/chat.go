package model

import "time"

// ChatSession is one conversation thread owned by a user.
type ChatSession struct {
	ID        int64
	UserID    int64
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message role constants.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one persisted turn of a chat session.
type ChatMessage struct {
	ID               int64
	ChatSessionID    int64
	Role             string
	Content          string
	Metadata         map[string]string
	AIModel          *string
	PromptTokens     int
	CompletionTokens int
	ResponseTimeMS   int64
	CreatedAt        time.Time
}
