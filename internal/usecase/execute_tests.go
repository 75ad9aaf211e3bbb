package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/verifier"
)

const maxSourceCodeSize = 1 << 20 // 1 MB

// ExecuteTestsUsecase handles the business logic for verifying a
// submission against its test cases.
type ExecuteTestsUsecase struct {
	runner *verifier.Runner
	logger *zap.Logger
}

// NewExecuteTestsUsecase creates a new ExecuteTestsUsecase.
func NewExecuteTestsUsecase(runner *verifier.Runner, logger *zap.Logger) *ExecuteTestsUsecase {
	return &ExecuteTestsUsecase{
		runner: runner,
		logger: logger,
	}
}

// Execute validates the request size and runs every test case. Validation
// of code, language, and test-case presence happens in the runner so the
// JSON and WebSocket paths share it.
func (uc *ExecuteTestsUsecase) Execute(ctx context.Context, req *domain.ExecutionRequest) ([]domain.TestResult, error) {
	if len(req.Code) > maxSourceCodeSize {
		return nil, domain.ErrPayloadTooLarge
	}
	return uc.runner.RunTests(ctx, req)
}

// ExecuteStreaming is Execute with a per-result callback for live delivery.
func (uc *ExecuteTestsUsecase) ExecuteStreaming(ctx context.Context, req *domain.ExecutionRequest, onResult func(domain.TestResult)) ([]domain.TestResult, error) {
	if len(req.Code) > maxSourceCodeSize {
		return nil, domain.ErrPayloadTooLarge
	}
	return uc.runner.RunTestsStreaming(ctx, req, onResult)
}
