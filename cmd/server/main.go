package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/surveyforge/survey-service/internal/config"
	"github.com/surveyforge/survey-service/internal/events"
	"github.com/surveyforge/survey-service/internal/generator"
	"github.com/surveyforge/survey-service/internal/handlers"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/utils"
	"github.com/surveyforge/survey-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := logger.Slog()

	// Auth runs only when a database is configured. Without one the auth
	// endpoints answer 503 and the rest of the service still works.
	var users repositories.UserRepository
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		users = repositories.NewUserRepository(db)
		logger.Info("database connected")
	} else {
		logger.Warn("DATABASE_URL not set, auth endpoints disabled")
	}

	// Drafts and recent lists live in Redis when available, otherwise in
	// process memory. Seed parameters are always in-process.
	var durable store.Storage = store.NewMemoryStorage()
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		durable = store.NewRedisStorage(client)
		logger.Info("redis connected")
	} else {
		logger.Warn("REDIS_URL not set, drafts held in memory")
	}
	stores := store.NewManager(durable, store.NewMemoryStorage())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pubSub := events.NewGoChannelPubSub(slogger)
	publisher := events.NewPublisher(pubSub, slogger)
	defer publisher.Close()
	if err := events.RunLogConsumer(ctx, pubSub, slogger, events.Topics...); err != nil {
		logger.Error("failed to start event consumer", "error", err)
		os.Exit(1)
	}

	var primary generator.Generator
	if cfg.OpenAIAPIKey != "" {
		primary = generator.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		logger.Info("primary generator configured", "model", cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, using deterministic fallback generator")
	}
	contract := generator.NewContract(primary, slogger)

	validator := utils.NewValidator()
	handlerManager := handlers.NewHandlerManager(
		cfg,
		services.NewAuthService(users, cfg.JWTSecret, slogger),
		services.NewGenerationService(contract, stores, publisher, validator, slogger),
		services.NewDraftService(stores, validator, slogger),
		services.NewSubmissionService(stores, publisher, slogger),
		services.NewExportService(stores, slogger),
		validator,
		logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
