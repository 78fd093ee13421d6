package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetNeighbors(ctx context.Context, key string) ([]Neighbor, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Neighbor), args.Error(1)
}

func (m *MockCache) SetNeighbors(ctx context.Context, key string, neighbors []Neighbor, ttl time.Duration) error {
	args := m.Called(ctx, key, neighbors, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
