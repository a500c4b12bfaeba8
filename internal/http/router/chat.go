package router

import (
	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/http/handler"
)

func ChatRouter(rg *gin.RouterGroup, h *handler.ChatHandler) {
	rg.POST("/sessions", h.CreateSession)
	rg.GET("/sessions", h.ListSessions)
	rg.GET("/sessions/:id", h.GetSession)
	rg.POST("/sessions/:id/messages", h.SendMessage)
	rg.DELETE("/sessions/:id/messages", h.ClearHistory)
	rg.DELETE("/sessions/:id", h.EndSession)
}
