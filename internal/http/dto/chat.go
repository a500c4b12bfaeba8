package dto

import (
	"strconv"
	"time"

	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

type CreateChatSessionRequest struct {
	Title string `json:"title"`
}

type ChatSessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToChatSessionResponse(session *model.ChatSession) ChatSessionResponse {
	return ChatSessionResponse{
		ID:        strconv.FormatInt(session.ID, 10),
		Title:     session.Title,
		IsActive:  session.IsActive,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func ToChatSessionResponses(sessions []model.ChatSession) []ChatSessionResponse {
	out := make([]ChatSessionResponse, len(sessions))
	for i := range sessions {
		out[i] = ToChatSessionResponse(&sessions[i])
	}
	return out
}

type ChatMessageResponse struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	AIModel   *string           `json:"ai_model,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func ToChatMessageResponses(messages []model.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = ChatMessageResponse{
			ID:        strconv.FormatInt(msg.ID, 10),
			Role:      msg.Role,
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			AIModel:   msg.AIModel,
			CreatedAt: msg.CreatedAt,
		}
	}
	return out
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
	// Context selects the assistant mode: plain (default), code_review, or
	// improvement_suggestion.
	Context string `json:"context"`
}

type SendMessageResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Canned   bool   `json:"canned"`
}

func ToSendMessageResponse(reply *service.ChatReply) SendMessageResponse {
	return SendMessageResponse{
		Reply:    reply.Reply,
		Provider: reply.Provider,
		Model:    reply.Model,
		Canned:   reply.Canned,
	}
}
