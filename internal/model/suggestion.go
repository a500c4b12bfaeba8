package model

import "time"

// Suggestion classification constants. Unrecognized values from the
// extractor are coerced to "other" / "medium" before storage.
const (
	SuggestionTypeArchitecture = "architecture"
	SuggestionTypePerformance  = "performance"
	SuggestionTypeSecurity     = "security"
	SuggestionTypeCodeQuality  = "code_quality"
	SuggestionTypeTesting      = "testing"
	SuggestionTypeDeployment   = "deployment"
	SuggestionTypeOther        = "other"

	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ProjectSuggestion is a stored improvement suggestion for a project.
type ProjectSuggestion struct {
	ID                  int64
	UserID              int64
	Title               string
	Description         string
	SuggestionType      string
	Priority            string
	CurrentSituation    string
	ProposedSolution    string
	ImplementationSteps []string
	AIConfidence        float64
	CreatedAt           time.Time
}
