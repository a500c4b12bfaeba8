package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/http/dto"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/service"
)

type SuggestionHandler struct {
	suggestionService service.SuggestionService
}

func NewSuggestionHandler(suggestionService service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

func (h *SuggestionHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	var req dto.GenerateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_info is required"})
		return
	}

	suggestion, err := h.suggestionService.Generate(ctx, user.ID, req.ProjectInfo)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate suggestion", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate suggestion"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToSuggestionResponse(suggestion))
}

func (h *SuggestionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	suggestionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion ID"})
		return
	}

	suggestion, err := h.suggestionService.Get(ctx, suggestionID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrSuggestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get suggestion", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get suggestion"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSuggestionResponse(suggestion))
}

func (h *SuggestionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	suggestions, err := h.suggestionService.List(ctx, user.ID, queryInt(c, "limit", 20))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list suggestions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": dto.ToSuggestionResponses(suggestions)})
}
