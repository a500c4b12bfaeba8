package router

import (
	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/internal/http/handler"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/service"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, authService service.AuthService) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", middleware.RequireAuth(authService), h.Me)
}
