package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/http/dto"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/service"
)

type StatusHandler struct {
	statsService service.StatsService
	providers    []llm.Provider
	personality  assistant.Personality
}

func NewStatusHandler(statsService service.StatsService, providers []llm.Provider, personality assistant.Personality) *StatusHandler {
	return &StatusHandler{
		statsService: statsService,
		providers:    providers,
		personality:  personality,
	}
}

// Status reports the persona greeting and which AI backends are wired.
// Constructing a provider never requires credentials, so this lists what is
// present, not what will succeed.
func (h *StatusHandler) Status(c *gin.Context) {
	providers := make([]gin.H, len(h.providers))
	for i, p := range h.providers {
		providers[i] = gin.H{
			"name":  p.Name(),
			"model": p.Model(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"sister_name": h.personality.Name,
		"message":     h.personality.StatusMessage,
		"features": gin.H{
			"chat":        true,
			"code_review": true,
			"suggestions": true,
		},
		"providers": providers,
	})
}

func (h *StatusHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	stats, err := h.statsService.Dashboard(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(stats))
}
