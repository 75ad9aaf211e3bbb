package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	mockpub "github.com/codequest-labs/codequest-engine/internal/publisher/mock"
	mockrepo "github.com/codequest-labs/codequest-engine/internal/repository/mock"
	"github.com/codequest-labs/codequest-engine/internal/sandbox"
	mocksandbox "github.com/codequest-labs/codequest-engine/internal/sandbox/mock"
	"github.com/codequest-labs/codequest-engine/internal/usecase"
	"github.com/codequest-labs/codequest-engine/internal/verifier"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testDeps struct {
	sandbox    *mocksandbox.MockClient
	challenges *mockrepo.MockChallengeRepository
	solutions  *mockrepo.MockSolutionRepository
	events     *mockpub.MockPublisher
}

func setupTestRouter() (*gin.Engine, *testDeps) {
	logger := zap.NewNop()

	deps := &testDeps{
		sandbox:    mocksandbox.NewMockClient(),
		challenges: mockrepo.NewMockChallengeRepository(),
		solutions:  mockrepo.NewMockSolutionRepository(),
		events:     mockpub.NewMockPublisher(),
	}

	runner := verifier.NewRunner(deps.sandbox, logger)
	executeUC := usecase.NewExecuteTestsUsecase(runner, logger)
	submitUC := usecase.NewSubmitSolutionUsecase(
		deps.challenges, deps.solutions,
		mockrepo.NewMockProfileRepository(),
		mockrepo.NewMockLeaderboardStore(),
		mockrepo.NewMockMultiplierCache(),
		mockrepo.NewMockIdempotencyStore(),
		deps.events, logger,
	)

	router := gin.New()

	execHandler := NewExecuteHandler(executeUC, 60*time.Second, logger)
	router.POST("/api/v1/execute", execHandler.Execute)

	subHandler := NewSubmissionHandler(submitUC, logger)
	router.POST("/api/v1/submissions", subHandler.Submit)

	return router, deps
}

func postJSON(router *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExecuteHandler_Success(t *testing.T) {
	router, deps := setupTestRouter()
	deps.sandbox.Result = sandbox.RunResult{Stdout: "3\n"}

	body := map[string]interface{}{
		"language": "python",
		"code":     "print(1 + 2)",
		"test_cases": []map[string]interface{}{
			{"id": "t1", "input": "", "expected_output": "3", "description": "adds"},
			{"id": "t2", "input": "", "expected_output": "4", "description": "off by one"},
		},
	}

	w := postJSON(router, "/api/v1/execute", body, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []domain.TestResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].TestID != "t1" || resp.Results[1].TestID != "t2" {
		t.Error("expected results in input order")
	}
	if !resp.Results[0].Passed || resp.Results[1].Passed {
		t.Errorf("expected pass/fail split, got %v/%v", resp.Results[0].Passed, resp.Results[1].Passed)
	}
}

func TestExecuteHandler_EmptyCode(t *testing.T) {
	router, _ := setupTestRouter()

	body := map[string]interface{}{
		"language": "python",
		"code":     "   ",
		"test_cases": []map[string]interface{}{
			{"id": "t1", "expected_output": "3"},
		},
	}

	w := postJSON(router, "/api/v1/execute", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExecuteHandler_InvalidLanguage(t *testing.T) {
	router, _ := setupTestRouter()

	body := map[string]interface{}{
		"language": "ruby",
		"code":     "puts 'hello'",
		"test_cases": []map[string]interface{}{
			{"id": "t1", "expected_output": "hello"},
		},
	}

	w := postJSON(router, "/api/v1/execute", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExecuteHandler_NoTestCases(t *testing.T) {
	router, _ := setupTestRouter()

	body := map[string]interface{}{
		"language": "python",
		"code":     "print(3)",
	}

	w := postJSON(router, "/api/v1/execute", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExecuteHandler_TransportFailureStillReturnsResults(t *testing.T) {
	router, deps := setupTestRouter()
	deps.sandbox.RunFn = func(ctx context.Context, req *sandbox.RunRequest) (*sandbox.RunResult, error) {
		return nil, errors.New("connection refused")
	}

	body := map[string]interface{}{
		"language": "javascript",
		"code":     "console.log(3)",
		"test_cases": []map[string]interface{}{
			{"id": "t1", "expected_output": "3"},
		},
	}

	w := postJSON(router, "/api/v1/execute", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []domain.TestResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Passed || resp.Results[0].Error == "" {
		t.Error("expected failing result with error populated")
	}
}

func TestSubmissionHandler_MissingUser(t *testing.T) {
	router, _ := setupTestRouter()

	body := map[string]interface{}{
		"challenge_id": uuid.New().String(),
		"code":         "print(3)",
		"language":     "python",
		"tests_passed": 1,
		"tests_total":  1,
	}

	w := postJSON(router, "/api/v1/submissions", body, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if success, _ := resp["success"].(bool); success {
		t.Error("expected success=false envelope")
	}
}

func TestSubmissionHandler_ChallengeNotFound(t *testing.T) {
	router, _ := setupTestRouter()

	body := map[string]interface{}{
		"challenge_id": uuid.New().String(),
		"code":         "print(3)",
		"language":     "python",
		"tests_passed": 1,
		"tests_total":  1,
	}
	headers := map[string]string{"X-User-ID": uuid.New().String()}

	w := postJSON(router, "/api/v1/submissions", body, headers)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmissionHandler_Success(t *testing.T) {
	router, deps := setupTestRouter()

	challenge := &domain.Challenge{
		ID:     uuid.New(),
		Title:  "FizzBuzz",
		Points: 80,
	}
	deps.challenges.Add(challenge)

	body := map[string]interface{}{
		"challenge_id": challenge.ID.String(),
		"code":         "print(3)",
		"language":     "python",
		"tests_passed": 2,
		"tests_total":  2,
	}
	headers := map[string]string{"X-User-ID": uuid.New().String()}

	w := postJSON(router, "/api/v1/submissions", body, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool                      `json:"success"`
		Data    *domain.SubmissionOutcome `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Data == nil || resp.Data.PointsEarned != 80 {
		t.Errorf("expected 80 points, got %+v", resp.Data)
	}
	if len(deps.solutions.Solutions) != 1 {
		t.Errorf("expected 1 persisted solution, got %d", len(deps.solutions.Solutions))
	}
	if len(deps.events.Published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(deps.events.Published))
	}
}

func TestLeaderboardHandler(t *testing.T) {
	store := mockrepo.NewMockLeaderboardStore()
	userID := uuid.New()
	store.AddPoints(context.Background(), userID, 120)

	handler := NewLeaderboardHandler(store, zap.NewNop())
	router := gin.New()
	router.GET("/api/v1/leaderboard", handler.Top)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Entries []domain.LeaderboardEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Points != 120 {
		t.Errorf("expected one entry with 120 points, got %+v", resp.Entries)
	}
}

func TestLeaderboardHandler_InvalidLimit(t *testing.T) {
	handler := NewLeaderboardHandler(mockrepo.NewMockLeaderboardStore(), zap.NewNop())
	router := gin.New()
	router.GET("/api/v1/leaderboard", handler.Top)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestLanguageHandler(t *testing.T) {
	handler := NewLanguageHandler()

	router := gin.New()
	router.GET("/api/v1/languages", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string][]domain.LanguageInfo
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	languages := resp["languages"]
	if len(languages) != 2 {
		t.Errorf("expected 2 languages, got %d", len(languages))
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(nil, nil, zap.NewNop())

	router := gin.New()
	router.GET("/api/v1/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
