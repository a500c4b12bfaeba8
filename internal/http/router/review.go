package router

import (
	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/http/handler"
)

func ReviewRouter(rg *gin.RouterGroup, h *handler.ReviewHandler) {
	rg.POST("", h.Submit)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
