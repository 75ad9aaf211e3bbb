package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development; restrict in production
	},
}

// streamFrame is one WebSocket message on the execute stream: either a
// single test result, a final summary, or an error.
type streamFrame struct {
	Result *domain.TestResult `json:"result,omitempty"`
	Done   bool               `json:"done,omitempty"`
	Passed int                `json:"passed,omitempty"`
	Total  int                `json:"total,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// WebSocketHandler streams per-test verification results as they complete.
type WebSocketHandler struct {
	executeUC     *usecase.ExecuteTestsUsecase
	requestBudget time.Duration
	logger        *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(executeUC *usecase.ExecuteTestsUsecase, requestBudget time.Duration, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		executeUC:     executeUC,
		requestBudget: requestBudget,
		logger:        logger,
	}
}

// Stream handles GET /api/v1/execute/stream (WebSocket upgrade). The
// client sends one ExecutionRequest message; the server answers with one
// frame per test result and a closing summary frame.
func (h *WebSocketHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var req domain.ExecutionRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamFrame{Error: "Invalid request message"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestBudget)
	defer cancel()

	results, err := h.executeUC.ExecuteStreaming(ctx, &req, func(res domain.TestResult) {
		if err := conn.WriteJSON(streamFrame{Result: &res}); err != nil {
			h.logger.Debug("WebSocket write failed (client disconnected)", zap.Error(err))
		}
	})
	if err != nil {
		conn.WriteJSON(streamFrame{Error: err.Error()})
		return
	}

	passed := 0
	for _, res := range results {
		if res.Passed {
			passed++
		}
	}
	conn.WriteJSON(streamFrame{Done: true, Passed: passed, Total: len(results)})
}
