package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/repository"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardHandler serves the points leaderboard.
type LeaderboardHandler struct {
	store  repository.LeaderboardStore
	logger *zap.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(store repository.LeaderboardStore, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		store:  store,
		logger: logger,
	}
}

// Top handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := h.store.Top(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Leaderboard read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
