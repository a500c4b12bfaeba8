package model

import "time"

// Feature constants for usage accounting.
const (
	FeatureChat       = "chat"
	FeatureCodeReview = "code_review"
	FeatureSuggestion = "improvement_suggestion"
)

// UsageTotals aggregates recorded AI calls for dashboard reporting.
type UsageTotals struct {
	Calls            int64
	PromptTokens     int64
	CompletionTokens int64
}

// ModelUsage is one recorded AI call, written by the usage worker.
type ModelUsage struct {
	ID               int64
	UserID           int64
	Provider         string
	ModelName        string
	PromptTokens     int
	CompletionTokens int
	Feature          string
	ChatSessionID    *int64
	DurationMS       int64
	CreatedAt        time.Time
}
