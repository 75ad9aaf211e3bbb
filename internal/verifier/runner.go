package verifier

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/metrics"
	"github.com/codequest-labs/codequest-engine/internal/sandbox"
)

// Runner drives a submission's test cases through the external sandbox,
// one call at a time. The provider is rate-limited on a shared token, so
// calls are strictly sequential and results keep input order.
type Runner struct {
	client sandbox.Client
	logger *zap.Logger
}

// NewRunner creates a test-verification runner.
func NewRunner(client sandbox.Client, logger *zap.Logger) *Runner {
	return &Runner{
		client: client,
		logger: logger,
	}
}

// RunTests verifies every test case in the request and returns one result
// per test case, in input order. Individual test failures never abort the
// batch; only a malformed request fails the call as a whole.
func (r *Runner) RunTests(ctx context.Context, req *domain.ExecutionRequest) ([]domain.TestResult, error) {
	return r.run(ctx, req, nil)
}

// RunTestsStreaming is RunTests with a per-result callback, invoked after
// each test case completes. Used by the WebSocket delivery path.
func (r *Runner) RunTestsStreaming(ctx context.Context, req *domain.ExecutionRequest, onResult func(domain.TestResult)) ([]domain.TestResult, error) {
	return r.run(ctx, req, onResult)
}

func (r *Runner) run(ctx context.Context, req *domain.ExecutionRequest, onResult func(domain.TestResult)) ([]domain.TestResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, domain.ErrEmptyCode
	}
	if !req.Language.IsValid() {
		return nil, domain.ErrInvalidLanguage
	}
	if len(req.TestCases) == 0 {
		return nil, domain.ErrNoTestCases
	}

	// Comparator is chosen once per submission, not per test case.
	cmp := ComparatorFor(req)

	results := make([]domain.TestResult, 0, len(req.TestCases))
	for _, tc := range req.TestCases {
		result := r.runOne(ctx, req, tc, cmp)
		results = append(results, result)
		if onResult != nil {
			onResult(result)
		}
	}

	passed := 0
	for _, res := range results {
		if res.Passed {
			passed++
		}
	}
	r.logger.Info("Test verification completed",
		zap.String("language", string(req.Language)),
		zap.Int("passed", passed),
		zap.Int("total", len(results)),
	)

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, req *domain.ExecutionRequest, tc domain.TestCase, cmp Comparator) domain.TestResult {
	result := domain.TestResult{
		TestID:   tc.ID,
		Message:  tc.Description,
		Expected: strings.TrimSpace(tc.ExpectedOutput),
	}

	// The overall request budget may expire mid-batch; remaining test
	// cases become failed results so the batch keeps its length invariant.
	if err := ctx.Err(); err != nil {
		result.Error = "execution budget exceeded"
		metrics.TestExecutionsTotal.WithLabelValues(string(req.Language), "error").Inc()
		return result
	}

	// Interactive-read patterns in both target runtimes expect
	// line-terminated stdin.
	stdin := tc.Input
	if stdin != "" && !strings.HasSuffix(stdin, "\n") {
		stdin += "\n"
	}

	start := time.Now()
	res, err := r.client.Run(ctx, &sandbox.RunRequest{
		Language: req.Language,
		Code:     req.Code,
		Stdin:    stdin,
	})
	elapsed := time.Since(start)
	result.ExecutionTimeMs = int(elapsed.Milliseconds())
	metrics.SandboxCallDuration.WithLabelValues(string(req.Language)).Observe(elapsed.Seconds())

	if err != nil {
		r.logger.Warn("Sandbox call failed",
			zap.String("test_id", tc.ID),
			zap.Error(err),
		)
		result.Error = "sandbox execution failed: " + err.Error()
		metrics.SandboxFailures.Inc()
		metrics.TestExecutionsTotal.WithLabelValues(string(req.Language), "error").Inc()
		return result
	}

	if res.Error != "" || strings.TrimSpace(res.Stderr) != "" {
		result.Output = strings.TrimSpace(res.Stdout)
		errText := res.Error
		if errText == "" {
			errText = res.Stderr
		}
		result.Error = strings.TrimSpace(errText)
		metrics.TestExecutionsTotal.WithLabelValues(string(req.Language), "error").Inc()
		return result
	}

	result.Output = strings.TrimSpace(res.Stdout)
	result.Passed = cmp.Match(result.Output, result.Expected)

	outcome := "fail"
	if result.Passed {
		outcome = "pass"
	}
	metrics.TestExecutionsTotal.WithLabelValues(string(req.Language), outcome).Inc()

	return result
}
