package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ocrgate/internal/domain"
)

// MockResultCache is a mock implementation of port.ResultCache.
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Connect(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockResultCache) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockResultCache) Get(ctx context.Context, content []byte) (*domain.ExtractionResult, bool) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Bool(1)
}

func (m *MockResultCache) Put(ctx context.Context, content []byte, result *domain.ExtractionResult, ttl time.Duration) bool {
	args := m.Called(ctx, content, result, ttl)
	return args.Bool(0)
}

func (m *MockResultCache) Stats(ctx context.Context) domain.CacheStats {
	args := m.Called(ctx)
	return args.Get(0).(domain.CacheStats)
}

func (m *MockResultCache) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}
