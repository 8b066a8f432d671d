package service

import (
	"context"
	"time"

	"ocrgate/internal/domain"
	"ocrgate/internal/gate"
	"ocrgate/internal/port"
)

// StatsService reports health and capacity of the pipeline.
type StatsService interface {
	Report(ctx context.Context) *domain.ServiceStats
	Health(ctx context.Context) *domain.HealthReport
}

type statsService struct {
	ocr    OCRService
	engine port.ExtractionEngine
	cache  port.ResultCache
	gate   *gate.Gate
	now    func() time.Time
}

// NewStatsService creates a new StatsService implementation. It only reads
// from its collaborators.
func NewStatsService(ocr OCRService, engine port.ExtractionEngine, cache port.ResultCache, g *gate.Gate) StatsService {
	return &statsService{
		ocr:    ocr,
		engine: engine,
		cache:  cache,
		gate:   g,
		now:    time.Now,
	}
}

func (s *statsService) Report(ctx context.Context) *domain.ServiceStats {
	return &domain.ServiceStats{
		Service:             ServiceName,
		Initialized:         s.ocr.Initialized(),
		ExtractionAvailable: s.engine.Ready(),
		Cache:               s.cache.Stats(ctx),
		Gate:                s.gate.Stats(),
	}
}

func (s *statsService) Health(ctx context.Context) *domain.HealthReport {
	stats := s.Report(ctx)
	status := domain.HealthStatusUnhealthy
	if stats.Initialized && stats.ExtractionAvailable {
		status = domain.HealthStatusHealthy
	}
	return &domain.HealthReport{
		Status:    status,
		Service:   ServiceName,
		Stats:     stats,
		Timestamp: s.now().UTC(),
	}
}
