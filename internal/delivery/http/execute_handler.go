package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
)

// ExecuteHandler handles HTTP requests for test verification runs.
type ExecuteHandler struct {
	executeUC     *usecase.ExecuteTestsUsecase
	requestBudget time.Duration
	logger        *zap.Logger
}

// NewExecuteHandler creates a new ExecuteHandler. requestBudget caps the
// wall-clock time of one whole verification batch.
func NewExecuteHandler(executeUC *usecase.ExecuteTestsUsecase, requestBudget time.Duration, logger *zap.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		executeUC:     executeUC,
		requestBudget: requestBudget,
		logger:        logger,
	}
}

// Execute handles POST /api/v1/execute
func (h *ExecuteHandler) Execute(c *gin.Context) {
	var req domain.ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestBudget)
	defer cancel()

	results, err := h.executeUC.Execute(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCode),
			errors.Is(err, domain.ErrInvalidLanguage),
			errors.Is(err, domain.ErrNoTestCases):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Test verification failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
