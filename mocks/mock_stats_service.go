package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ocrgate/internal/domain"
)

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Report(ctx context.Context) *domain.ServiceStats {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ServiceStats)
}

func (m *MockStatsService) Health(ctx context.Context) *domain.HealthReport {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.HealthReport)
}
