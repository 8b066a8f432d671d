package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocrgate/internal/domain"
)

// MockOCRService is a mock implementation of service.OCRService.
type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOCRService) Initialized() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockOCRService) Process(ctx context.Context, content []byte, filename string) *domain.Envelope {
	args := m.Called(ctx, content, filename)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Envelope)
}

func (m *MockOCRService) ModelInfo() domain.ModelInfo {
	args := m.Called()
	return args.Get(0).(domain.ModelInfo)
}

func (m *MockOCRService) Cleanup(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
