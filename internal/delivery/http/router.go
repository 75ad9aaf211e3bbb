package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/delivery/http/middleware"
	"github.com/codequest-labs/codequest-engine/internal/repository"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
)

// maxRequestBody bounds incoming request bodies (source code plus test cases).
const maxRequestBody = 2 << 20 // 2 MB

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	ExecuteUC       *usecase.ExecuteTestsUsecase
	SubmitUC        *usecase.SubmitSolutionUsecase
	Leaderboard     repository.LeaderboardStore
	Logger          *zap.Logger
	RateLimitPerMin int
	RequestBudget   time.Duration
	DBPool          *pgxpool.Pool
	Redis           *goredis.Client
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(deps.Logger))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check (no rate limiting)
		healthHandler := NewHealthHandler(deps.DBPool, deps.Redis, deps.Logger)
		v1.GET("/health", healthHandler.Health)

		// Languages
		langHandler := NewLanguageHandler()
		v1.GET("/languages", langHandler.List)

		// Leaderboard
		lbHandler := NewLeaderboardHandler(deps.Leaderboard, deps.Logger)
		v1.GET("/leaderboard", lbHandler.Top)

		// Verification and scoring (rate limited, bounded bodies)
		limited := v1.Group("")
		limited.Use(middleware.RateLimiter(deps.RateLimitPerMin))
		limited.Use(middleware.BodySizeLimit(maxRequestBody))

		execHandler := NewExecuteHandler(deps.ExecuteUC, deps.RequestBudget, deps.Logger)
		limited.POST("/execute", execHandler.Execute)

		wsHandler := NewWebSocketHandler(deps.ExecuteUC, deps.RequestBudget, deps.Logger)
		limited.GET("/execute/stream", wsHandler.Stream)

		subHandler := NewSubmissionHandler(deps.SubmitUC, deps.Logger)
		limited.POST("/submissions", subHandler.Submit)
	}

	return router
}
