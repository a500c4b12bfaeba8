package dto

import (
	"strconv"
	"time"

	"sistersaas.app/assistant/internal/model"
)

type SubmitReviewRequest struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Code     string `json:"code" binding:"required"`
}

type ReviewResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Language     string     `json:"language"`
	OriginalCode string     `json:"original_code,omitempty"`
	ReviewResult string     `json:"review_result"`
	Status       string     `json:"status"`
	AIModel      *string    `json:"ai_model,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func ToReviewResponse(review *model.CodeReview, includeCode bool) ReviewResponse {
	resp := ReviewResponse{
		ID:           strconv.FormatInt(review.ID, 10),
		Title:        review.Title,
		Language:     review.Language,
		ReviewResult: review.ReviewResult,
		Status:       review.Status,
		AIModel:      review.AIModel,
		CreatedAt:    review.CreatedAt,
		CompletedAt:  review.CompletedAt,
	}
	if includeCode {
		resp.OriginalCode = review.OriginalCode
	}
	return resp
}

func ToReviewResponses(reviews []model.CodeReview) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i], false)
	}
	return out
}
