package notify

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of Notifier using testify/mock.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) EmbeddingsSaved(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
