package verifier

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/sandbox"
	mocksandbox "github.com/codequest-labs/codequest-engine/internal/sandbox/mock"
)

func threeCases() []domain.TestCase {
	return []domain.TestCase{
		{ID: "t1", Input: "1 2", ExpectedOutput: "3", Description: "adds small numbers"},
		{ID: "t2", Input: "10 20", ExpectedOutput: "30", Description: "adds bigger numbers"},
		{ID: "t3", Input: "0 0", ExpectedOutput: "0", Description: "handles zero"},
	}
}

func TestRunTests_OrderingAndLength(t *testing.T) {
	client := mocksandbox.NewMockClient()
	client.RunFn = func(ctx context.Context, req *sandbox.RunRequest) (*sandbox.RunResult, error) {
		return &sandbox.RunResult{Stdout: "wrong"}, nil
	}
	runner := NewRunner(client, zap.NewNop())

	req := &domain.ExecutionRequest{
		Code:      "print(sum(map(int, input().split())))",
		Language:  domain.LangPython,
		TestCases: threeCases(),
	}

	results, err := runner.RunTests(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(req.TestCases) {
		t.Fatalf("expected %d results, got %d", len(req.TestCases), len(results))
	}
	for i, res := range results {
		if res.TestID != req.TestCases[i].ID {
			t.Errorf("result %d: expected test ID %s, got %s", i, req.TestCases[i].ID, res.TestID)
		}
		if res.Message != req.TestCases[i].Description {
			t.Errorf("result %d: expected message copied from description", i)
		}
	}
}

func TestRunTests_ValidationFailsFast(t *testing.T) {
	client := mocksandbox.NewMockClient()
	runner := NewRunner(client, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name    string
		req     *domain.ExecutionRequest
		wantErr error
	}{
		{"empty code", &domain.ExecutionRequest{Code: "  ", Language: domain.LangPython, TestCases: threeCases()}, domain.ErrEmptyCode},
		{"bad language", &domain.ExecutionRequest{Code: "x", Language: domain.Language("ruby"), TestCases: threeCases()}, domain.ErrInvalidLanguage},
		{"no test cases", &domain.ExecutionRequest{Code: "x", Language: domain.LangPython}, domain.ErrNoTestCases},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := runner.RunTests(ctx, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if results != nil {
				t.Error("expected no partial results on invalid request")
			}
		})
	}
	if client.CallCount() != 0 {
		t.Errorf("expected no sandbox calls on invalid requests, got %d", client.CallCount())
	}
}

func TestRunTests_StdinNewlineShim(t *testing.T) {
	client := mocksandbox.NewMockClient()
	runner := NewRunner(client, zap.NewNop())

	req := &domain.ExecutionRequest{
		Code:     "print(input())",
		Language: domain.LangPython,
		TestCases: []domain.TestCase{
			{ID: "a", Input: "no newline", ExpectedOutput: "x"},
			{ID: "b", Input: "has newline\n", ExpectedOutput: "x"},
			{ID: "c", Input: "", ExpectedOutput: "x"},
		},
	}

	if _, err := runner.RunTests(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.Calls[0].Stdin; got != "no newline\n" {
		t.Errorf("expected newline appended, got %q", got)
	}
	if got := client.Calls[1].Stdin; got != "has newline\n" {
		t.Errorf("expected stdin unchanged, got %q", got)
	}
	if got := client.Calls[2].Stdin; got != "" {
		t.Errorf("expected empty stdin untouched, got %q", got)
	}
}

func TestRunTests_TransportFailureDoesNotAbortBatch(t *testing.T) {
	client := mocksandbox.NewMockClient()
	call := 0
	client.RunFn = func(ctx context.Context, req *sandbox.RunRequest) (*sandbox.RunResult, error) {
		call++
		if call == 3 {
			return nil, errors.New("request timed out")
		}
		// Echo the expected output for the first two calls.
		if call == 1 {
			return &sandbox.RunResult{Stdout: "3\n"}, nil
		}
		return &sandbox.RunResult{Stdout: "30\n"}, nil
	}
	runner := NewRunner(client, zap.NewNop())

	req := &domain.ExecutionRequest{
		Code:      "print(sum(map(int, input().split())))",
		Language:  domain.LangPython,
		TestCases: threeCases(),
	}

	results, err := runner.RunTests(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed || !results[1].Passed {
		t.Error("expected first two tests to pass on exact comparison")
	}
	if results[2].Passed {
		t.Error("expected third test to fail")
	}
	if results[2].Error == "" {
		t.Error("expected error populated on failed sandbox call")
	}
	if results[2].Output != "" {
		t.Errorf("expected empty output on transport failure, got %q", results[2].Output)
	}
}

func TestRunTests_RuntimeErrorMarksFailure(t *testing.T) {
	client := mocksandbox.NewMockClient()
	client.Result = sandbox.RunResult{
		Stdout: "partial output\n",
		Stderr: "Traceback (most recent call last):\nZeroDivisionError: division by zero",
	}
	runner := NewRunner(client, zap.NewNop())

	req := &domain.ExecutionRequest{
		Code:      "print(1/0)",
		Language:  domain.LangPython,
		TestCases: threeCases()[:1],
	}

	results, err := runner.RunTests(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := results[0]
	if res.Passed {
		t.Error("expected failure when the program errored")
	}
	if res.Error == "" {
		t.Error("expected stderr copied into error")
	}
	if res.Output != "partial output" {
		t.Errorf("expected trimmed partial stdout kept, got %q", res.Output)
	}
}

func TestRunTests_TolerantComparatorSelectedOnce(t *testing.T) {
	playout := "choose rock, paper, or scissors\nyou chose rock\ncomputer chose paper\nyou lose! score: 0-1"
	client := mocksandbox.NewMockClient()
	client.Result = sandbox.RunResult{Stdout: playout}
	runner := NewRunner(client, zap.NewNop())

	expected := "choose rock, paper, or scissors\nyou chose paper\ncomputer chose rock\nyou win! score: 1-0"
	req := &domain.ExecutionRequest{
		Code:     "import random\nplay()",
		Language: domain.LangPython,
		TestCases: []domain.TestCase{
			{ID: "g1", ExpectedOutput: expected},
			{ID: "g2", ExpectedOutput: expected},
		},
	}

	results, err := runner.RunTests(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, res := range results {
		if !res.Passed {
			t.Errorf("result %d: expected tolerant comparison to accept the playout", i)
		}
	}
}

func TestRunTests_ExpiredBudgetProducesFullLengthResults(t *testing.T) {
	client := mocksandbox.NewMockClient()
	runner := NewRunner(client, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &domain.ExecutionRequest{
		Code:      "print(1)",
		Language:  domain.LangPython,
		TestCases: threeCases(),
	}

	results, err := runner.RunTests(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Passed {
			t.Errorf("result %d: expected failure after budget expiry", i)
		}
		if res.Error == "" {
			t.Errorf("result %d: expected budget error populated", i)
		}
	}
	if client.CallCount() != 0 {
		t.Errorf("expected no sandbox calls after budget expiry, got %d", client.CallCount())
	}
}

func TestRunTestsStreaming_CallbackPerResult(t *testing.T) {
	client := mocksandbox.NewMockClient()
	client.Result = sandbox.RunResult{Stdout: "3"}
	runner := NewRunner(client, zap.NewNop())

	req := &domain.ExecutionRequest{
		Code:      "print(3)",
		Language:  domain.LangPython,
		TestCases: threeCases(),
	}

	var streamed []string
	results, err := runner.RunTestsStreaming(context.Background(), req, func(res domain.TestResult) {
		streamed = append(streamed, res.TestID)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streamed) != len(results) {
		t.Fatalf("expected %d streamed results, got %d", len(results), len(streamed))
	}
	for i, id := range streamed {
		if id != req.TestCases[i].ID {
			t.Errorf("streamed result %d out of order: %s", i, id)
		}
	}
}
