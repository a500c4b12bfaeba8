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

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	review, err := h.reviewService.Submit(ctx, user.ID, req.Title, req.Language, req.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to submit code review", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit code review"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToReviewResponse(review, true))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	reviewID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	review, err := h.reviewService.Get(ctx, reviewID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "code review not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get code review", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get code review"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReviewResponse(review, true))
}

func (h *ReviewHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	reviews, err := h.reviewService.List(ctx, user.ID, queryInt(c, "limit", 20))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list code reviews", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list code reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": dto.ToReviewResponses(reviews)})
}
