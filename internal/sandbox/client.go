package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
)

// maxResponseBytes caps the provider response body to prevent memory
// exhaustion from a misbehaving upstream.
const maxResponseBytes = 1 << 20 // 1 MB

// RunRequest is a single execution of user code against one stdin.
type RunRequest struct {
	Language domain.Language
	Code     string
	Stdin    string
}

// RunResult is the provider's view of one execution. Error covers
// provider-reported failures (compile errors, crashed runtimes); transport
// problems surface as Go errors from Run instead.
type RunResult struct {
	Stdout string
	Stderr string
	Error  string
}

// Client executes code through the external sandboxed execution provider.
// Implementations must be safe for concurrent use.
type Client interface {
	Run(ctx context.Context, req *RunRequest) (*RunResult, error)
}

// filePayload and runPayload mirror the provider's wire format:
// POST { language, files: [{name, content}], stdin } with bearer auth.
type filePayload struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type runPayload struct {
	Language string        `json:"language"`
	Files    []filePayload `json:"files"`
	Stdin    string        `json:"stdin"`
}

type runResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Error  string `json:"error"`
}

type httpClient struct {
	endpoint    string
	token       string
	callTimeout time.Duration
	hc          *http.Client
	logger      *zap.Logger
}

// NewHTTPClient creates a sandbox client against the configured provider
// endpoint. callTimeout bounds each individual execution call.
func NewHTTPClient(endpoint, token string, callTimeout time.Duration, logger *zap.Logger) Client {
	return &httpClient{
		endpoint:    endpoint,
		token:       token,
		callTimeout: callTimeout,
		hc:          &http.Client{Timeout: callTimeout},
		logger:      logger,
	}
}

func (c *httpClient) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	payload := runPayload{
		Language: string(req.Language),
		Files: []filePayload{
			{Name: req.Language.FileName(), Content: req.Code},
		},
		Stdin: req.Stdin,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sandbox: marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sandbox: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sandbox: call provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("sandbox: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sandbox: provider returned status %d", resp.StatusCode)
	}

	var out runResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("sandbox: decode response: %w", err)
	}

	c.logger.Debug("Sandbox call completed",
		zap.String("language", string(req.Language)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stdout_bytes", len(out.Stdout)),
	)

	return &RunResult{
		Stdout: out.Stdout,
		Stderr: out.Stderr,
		Error:  out.Error,
	}, nil
}
