package router

import (
	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/http/handler"
)

func SuggestionRouter(rg *gin.RouterGroup, h *handler.SuggestionHandler) {
	rg.POST("", h.Generate)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
