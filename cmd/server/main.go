package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/common/otel"
	"sistersaas.app/assistant/core/config"
	"sistersaas.app/assistant/core/db"
	"sistersaas.app/assistant/internal/http/middleware"
	httprouter "sistersaas.app/assistant/internal/http/router"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/service"
	"sistersaas.app/assistant/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "assistant server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Usage.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Usage.Stream)

	usageProducer := queue.NewRedisProducer(redisClient, cfg.Usage.Stream, nil)
	defer usageProducer.Close()

	stores := store.NewStores(database.Pool())

	providers, extractor := buildAssistantBackends(cfg)

	for _, p := range providers {
		slog.InfoContext(ctx, "provider registered", "provider", p.Name(), "model", p.Model())
	}

	services := service.NewServices(stores, usageProducer, providers, extractor, cfg.WorkOS, cfg.Assistant)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, providers)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, providers []llm.Provider) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		FrontendURL:  cfg.FrontendURL,
		IsProduction: cfg.IsProduction(),
		Providers:    providers,
	})

	return router
}

// buildAssistantBackends constructs the provider fallback chain and the
// structured-output extractor. Provider order is the fallback order: Anthropic
// first, OpenAI second. Unconfigured providers stay in the chain; their sends
// fail fast and the orchestrator moves on. The extractor speaks the OpenAI
// structured-output API, so it follows the OpenAI credentials regardless of
// which provider answers chat turns.
func buildAssistantBackends(cfg config.Config) ([]llm.Provider, llm.Extractor) {
	providers := []llm.Provider{
		llm.NewAnthropicProvider(providerConfig(cfg.Anthropic)),
		llm.NewOpenAIProvider(providerConfig(cfg.OpenAI)),
	}
	return providers, llm.NewExtractor(providerConfig(cfg.OpenAI))
}

func providerConfig(cfg config.ProviderConfig) llm.Config {
	return llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}
}

const banner = `
███████╗██╗███████╗████████╗███████╗██████╗     ███████╗ █████╗  █████╗ ███████╗
██╔════╝██║██╔════╝╚══██╔══╝██╔════╝██╔══██╗    ██╔════╝██╔══██╗██╔══██╗██╔════╝
███████╗██║███████╗   ██║   █████╗  ██████╔╝    ███████╗███████║███████║███████╗
╚════██║██║╚════██║   ██║   ██╔══╝  ██╔══██╗    ╚════██║██╔══██║██╔══██║╚════██║
███████║██║███████║   ██║   ███████╗██║  ██║    ███████║██║  ██║██║  ██║███████║
╚══════╝╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝    ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝
`
