package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shareit-team/shareit-server/internal/application"
	"github.com/shareit-team/shareit-server/internal/config"
	"github.com/shareit-team/shareit-server/internal/events"
	"github.com/shareit-team/shareit-server/internal/handler"
	"github.com/shareit-team/shareit-server/internal/repository"
	"github.com/shareit-team/shareit-server/migrations"
	"github.com/shareit-team/shareit-server/pkg/database"
	"github.com/shareit-team/shareit-server/pkg/health"
	"github.com/shareit-team/shareit-server/pkg/kafka"
	"github.com/shareit-team/shareit-server/pkg/logger"
	"github.com/shareit-team/shareit-server/pkg/metrics"
	"github.com/shareit-team/shareit-server/pkg/middleware"
	"github.com/shareit-team/shareit-server/pkg/ratelimit"
	"github.com/shareit-team/shareit-server/pkg/response"
)

const serviceName = "shareit-server"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamedWithLevel(cfg.AppEnv, serviceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting shareit-server",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.UsesAutoMigrate() {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (auto-migrate)")
	} else {
		if err := database.RunMigrations(database.DatabaseURL(cfg.DBConfig), migrations.FS, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Redis is optional; without it rate limiting is per process
	var redisClient *redis.Client
	if cfg.RedisConfig.Address != "" {
		redisClient = ratelimit.NewRedisClient(cfg.RedisConfig)
		defer func() { _ = redisClient.Close() }()
	}
	limiter := ratelimit.New(redisClient, cfg.RateLimitConfig)

	// Initialize repositories
	userRepo := repository.NewCachedUserRepository(
		repository.NewGormUserRepository(db),
		cfg.UserCacheConfig.Size,
		cfg.UserCacheConfig.TTL,
		log,
	)
	itemRepo := repository.NewGormItemRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	requestRepo := repository.NewGormItemRequestRepository(db)
	transactor := repository.NewGormTransactor(db)

	// Initialize application services
	userService := application.NewUserService(userRepo, kafkaProducer, log)
	bookingService := application.NewBookingService(bookingRepo, userRepo, itemRepo, transactor, kafkaProducer, log)
	itemService := application.NewItemService(itemRepo, commentRepo, bookingRepo, userRepo, requestRepo, kafkaProducer, log)
	requestService := application.NewRequestService(requestRepo, itemRepo, userRepo, log)

	// Start the user event consumer that keeps the user cache coherent across replicas
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "user-cache-" + uuid.NewString()[:8]
	userConsumer := events.NewUserEventConsumer(cfg.KafkaConfig.Brokers, groupID, userRepo, log)
	defer func() { _ = userConsumer.Close() }()

	go func() {
		log.Info("starting user event consumer", zap.String("group_id", groupID))
		if err := userConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("user event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	userHandler := handler.NewUserHandler(userService)
	itemHandler := handler.NewItemHandler(itemService)
	requestHandler := handler.NewRequestHandler(requestService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	response.UseJSONFieldNames()
	metrics.Register()
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, serviceName)
	if redisClient != nil {
		healthHandler.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register resource routes
	api := router.Group("")
	api.Use(middleware.RateLimitMiddleware(limiter, log))
	userHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	bookingHandler.RegisterRoutes(api)
	requestHandler.RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down shareit-server...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("shareit-server stopped")
}
