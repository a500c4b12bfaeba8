package router

import (
	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/http/handler"
	"sistersaas.app/assistant/internal/http/middleware"
	"sistersaas.app/assistant/internal/service"
)

type RouterConfig struct {
	FrontendURL  string
	IsProduction bool
	Providers    []llm.Provider
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authService := services.Auth()

	authHandler := handler.NewAuthHandler(authService, cfg.FrontendURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, authService)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(authService))
	{
		chatHandler := handler.NewChatHandler(services.Chat())
		ChatRouter(v1.Group("/chat"), chatHandler)

		reviewHandler := handler.NewReviewHandler(services.Reviews())
		ReviewRouter(v1.Group("/reviews"), reviewHandler)

		suggestionHandler := handler.NewSuggestionHandler(services.Suggestions())
		SuggestionRouter(v1.Group("/suggestions"), suggestionHandler)

		statusHandler := handler.NewStatusHandler(services.Stats(), cfg.Providers, services.Personality())
		v1.GET("/dashboard", statusHandler.Dashboard)
		v1.GET("/status", statusHandler.Status)
	}
}
