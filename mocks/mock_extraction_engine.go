package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocrgate/internal/domain"
)

// MockExtractionEngine is a mock implementation of port.ExtractionEngine.
type MockExtractionEngine struct {
	mock.Mock
}

func (m *MockExtractionEngine) Extract(ctx context.Context, imagePath string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockExtractionEngine) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockExtractionEngine) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockExtractionEngine) Info() domain.ModelInfo {
	args := m.Called()
	return args.Get(0).(domain.ModelInfo)
}
