package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/config"
	handler "github.com/codequest-labs/codequest-engine/internal/delivery/http"
	"github.com/codequest-labs/codequest-engine/internal/publisher"
	pgrepo "github.com/codequest-labs/codequest-engine/internal/repository/postgres"
	redisrepo "github.com/codequest-labs/codequest-engine/internal/repository/redis"
	"github.com/codequest-labs/codequest-engine/internal/sandbox"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
	"github.com/codequest-labs/codequest-engine/internal/verifier"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting CodeQuest engine server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to PostgreSQL
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping PostgreSQL", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis")

	// Initialize RabbitMQ publisher
	pub, err := publisher.NewRabbitMQPublisher(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
	}
	defer pub.Close()
	logger.Info("Connected to RabbitMQ")

	// Initialize repositories
	challengeRepo := pgrepo.NewChallengeRepository(dbPool)
	solutionRepo := pgrepo.NewSolutionRepository(dbPool)
	profileRepo := pgrepo.NewProfileRepository(dbPool)
	leaderboard := redisrepo.NewLeaderboardStore(rdb)
	multiplierCache := redisrepo.NewMultiplierCache(rdb)
	idempotency := redisrepo.NewIdempotencyStore(rdb)

	// Initialize verification pipeline
	sandboxClient := sandbox.NewHTTPClient(cfg.Sandbox.Endpoint, cfg.Sandbox.Token, cfg.Sandbox.CallTimeout, logger)
	runner := verifier.NewRunner(sandboxClient, logger)

	// Initialize use cases
	executeUC := usecase.NewExecuteTestsUsecase(runner, logger)
	submitUC := usecase.NewSubmitSolutionUsecase(
		challengeRepo, solutionRepo, profileRepo,
		leaderboard, multiplierCache, idempotency,
		pub, logger,
	)

	// Initialize router
	router := handler.NewRouter(&handler.RouterDeps{
		ExecuteUC:       executeUC,
		SubmitUC:        submitUC,
		Leaderboard:     leaderboard,
		Logger:          logger,
		RateLimitPerMin: cfg.Server.RateLimit,
		RequestBudget:   cfg.Sandbox.RequestBudget,
		DBPool:          dbPool,
		Redis:           rdb,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Engine server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down engine server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Engine server stopped")
}
