package model

import "time"

// Review status constants.
const (
	ReviewStatusPending   = "pending"
	ReviewStatusCompleted = "completed"
	ReviewStatusFailed    = "failed"
)

// CodeReview is a stored review of a pasted code snippet.
type CodeReview struct {
	ID               int64
	UserID           int64
	Title            string
	Language         string
	OriginalCode     string
	ReviewResult     string
	Status           string
	AIModel          *string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
