package mock

import (
	"context"
	"sync"

	"github.com/codequest-labs/codequest-engine/internal/sandbox"
)

// Ensure MockClient implements sandbox.Client.
var _ sandbox.Client = (*MockClient)(nil)

// MockClient is an in-memory sandbox client for testing. RunFn, when set,
// overrides the default canned behavior.
type MockClient struct {
	mu    sync.Mutex
	Calls []*sandbox.RunRequest

	RunFn func(ctx context.Context, req *sandbox.RunRequest) (*sandbox.RunResult, error)

	// Result is returned for every call when RunFn is nil.
	Result sandbox.RunResult
}

// NewMockClient creates a mock sandbox client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Run(ctx context.Context, req *sandbox.RunRequest) (*sandbox.RunResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.RunFn != nil {
		return m.RunFn(ctx, req)
	}
	out := m.Result
	return &out, nil
}

// CallCount returns the number of recorded calls.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
