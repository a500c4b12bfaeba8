package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/http/dto"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	// Body is optional; a missing title gets a default.
	var req dto.CreateChatSessionRequest
	_ = c.ShouldBindJSON(&req)

	session, err := h.chatService.CreateSession(ctx, user.ID, req.Title)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create chat session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat session"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToChatSessionResponse(session))
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	sessions, err := h.chatService.ListSessions(ctx, user.ID, queryInt(c, "limit", 20))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list chat sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chat sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": dto.ToChatSessionResponses(sessions)})
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	sessionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	session, messages, err := h.chatService.SessionMessages(ctx, sessionID, user.ID, queryInt(c, "limit", 0))
	if err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get chat session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chat session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  dto.ToChatSessionResponse(session),
		"messages": dto.ToChatMessageResponses(messages),
	})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	sessionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.chatService.SendMessage(ctx, sessionID, user.ID, req.Message,
		assistant.ParseContextKind(req.Context))
	if err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to send message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSendMessageResponse(reply))
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	sessionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	if err := h.chatService.ClearHistory(ctx, sessionID, user.ID); err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to clear chat history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

func (h *ChatHandler) EndSession(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	sessionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	if err := h.chatService.EndSession(ctx, sessionID, user.ID); err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to end chat session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end chat session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
