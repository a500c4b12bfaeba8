package dto

import (
	"strconv"
	"time"

	"sistersaas.app/assistant/internal/model"
)

type GenerateSuggestionRequest struct {
	// ProjectInfo is free-form key/value context about the project, e.g.
	// {"stack": "django", "issue": "slow queries"}.
	ProjectInfo map[string]string `json:"project_info" binding:"required"`
}

type SuggestionResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	SuggestionType      string    `json:"suggestion_type"`
	Priority            string    `json:"priority"`
	CurrentSituation    string    `json:"current_situation,omitempty"`
	ProposedSolution    string    `json:"proposed_solution"`
	ImplementationSteps []string  `json:"implementation_steps"`
	AIConfidence        float64   `json:"ai_confidence"`
	CreatedAt           time.Time `json:"created_at"`
}

func ToSuggestionResponse(suggestion *model.ProjectSuggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:                  strconv.FormatInt(suggestion.ID, 10),
		Title:               suggestion.Title,
		Description:         suggestion.Description,
		SuggestionType:      suggestion.SuggestionType,
		Priority:            suggestion.Priority,
		CurrentSituation:    suggestion.CurrentSituation,
		ProposedSolution:    suggestion.ProposedSolution,
		ImplementationSteps: suggestion.ImplementationSteps,
		AIConfidence:        suggestion.AIConfidence,
		CreatedAt:           suggestion.CreatedAt,
	}
}

func ToSuggestionResponses(suggestions []model.ProjectSuggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, len(suggestions))
	for i := range suggestions {
		out[i] = ToSuggestionResponse(&suggestions[i])
	}
	return out
}
