package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/config"
	"github.com/SAP-F-2025/survey-service/internal/events"
	"github.com/SAP-F-2025/survey-service/internal/handlers"
	"github.com/SAP-F-2025/survey-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"github.com/SAP-F-2025/survey-service/pkg"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	zapLogger := utils.NewZap(cfg.Environment)
	defer zapLogger.Sync()
	logger := utils.NewZapLogger(zapLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := pkg.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(cfg)
	switch {
	case err != nil:
		zapLogger.Warn("Redis unavailable, bundle caching disabled", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, zapLogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(zapLogger)
	if err != nil {
		zapLogger.Error("Failed to create event publisher, falling back to mock", zap.Error(err))
		publisher = events.NewMockEventPublisher(zapLogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zapLogger.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	serviceManager := services.NewServiceManager(
		postgres.NewRepository(db),
		cacheService,
		publisher,
		zapLogger,
		validator.New(),
		cfg.BundleCacheTTL,
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))

	handlers.NewHandlerManager(serviceManager, logger, handlers.StaffAuthConfig{
		AdminToken:      cfg.AdminAPIToken,
		AllowQueryToken: cfg.IsDevelopment(),
	}).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Survey service listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Survey service stopped")
}
