package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthHandler reports dependency health.
type HealthHandler struct {
	dbPool *pgxpool.Pool
	redis  *goredis.Client
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(dbPool *pgxpool.Pool, redis *goredis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		dbPool: dbPool,
		redis:  redis,
		logger: logger,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	services := gin.H{"postgres": "ok", "redis": "ok"}

	if h.dbPool != nil {
		if err := h.dbPool.Ping(ctx); err != nil {
			services["postgres"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			services["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"services": services,
	})
}
