package mock

import (
	"context"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/publisher"
)

// Ensure MockPublisher implements publisher.Publisher.
var _ publisher.Publisher = (*MockPublisher)(nil)

// MockPublisher is a mock event publisher for testing.
type MockPublisher struct {
	Published []*domain.SubmissionEvent
	PublishFn func(ctx context.Context, event *domain.SubmissionEvent) error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event *domain.SubmissionEvent) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, event)
	}
	m.Published = append(m.Published, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
