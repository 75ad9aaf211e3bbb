package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
)

// userIDHeader carries the authenticated user identity, set by the
// upstream gateway that owns authentication and MFA.
const userIDHeader = "X-User-ID"

// SubmissionHandler handles HTTP requests for scored submissions.
type SubmissionHandler struct {
	submitUC *usecase.SubmitSolutionUsecase
	logger   *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submitUC *usecase.SubmitSolutionUsecase, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submitUC: submitUC,
		logger:   logger,
	}
}

// Submit handles POST /api/v1/submissions.
//
// The response is always the {success, error?, data?} envelope: exactly
// one of error or data is present.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, err := uuid.Parse(c.GetHeader(userIDHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   domain.ErrUnauthorized.Error(),
		})
		return
	}

	var req domain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	outcome, err := h.submitUC.Execute(c.Request.Context(), userID, &req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		switch {
		case errors.Is(err, domain.ErrChallengeNotFound):
			status = http.StatusNotFound
			message = err.Error()
		case errors.Is(err, domain.ErrDuplicateSubmission):
			status = http.StatusConflict
			message = err.Error()
		default:
			h.logger.Error("Submission failed", zap.Error(err), zap.String("user_id", userID.String()))
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outcome,
	})
}
