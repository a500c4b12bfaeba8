package dto

import "sistersaas.app/assistant/internal/service"

type DashboardResponse struct {
	ChatMessages     int64 `json:"chat_messages"`
	CodeReviews      int64 `json:"code_reviews"`
	Suggestions      int64 `json:"suggestions"`
	AICalls          int64 `json:"ai_calls"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`

	RecentSessions    []ChatSessionResponse `json:"recent_sessions"`
	RecentReviews     []ReviewResponse      `json:"recent_reviews"`
	RecentSuggestions []SuggestionResponse  `json:"recent_suggestions"`
}

func ToDashboardResponse(stats *service.DashboardStats) DashboardResponse {
	return DashboardResponse{
		ChatMessages:      stats.ChatMessages,
		CodeReviews:       stats.CodeReviews,
		Suggestions:       stats.Suggestions,
		AICalls:           stats.Usage.Calls,
		PromptTokens:      stats.Usage.PromptTokens,
		CompletionTokens:  stats.Usage.CompletionTokens,
		RecentSessions:    ToChatSessionResponses(stats.RecentSessions),
		RecentReviews:     ToReviewResponses(stats.RecentReviews),
		RecentSuggestions: ToSuggestionResponses(stats.RecentSuggestions),
	}
}
