package port

import (
	"context"
	"time"

	"ocrgate/internal/domain"
)

// ResultCache stores extraction results addressed by the content they were
// produced from. Implementations degrade to a pass-through when the backing
// store is unavailable: Get misses and Put reports false.
type ResultCache interface {
	Connect(ctx context.Context) bool
	Connected() bool
	Get(ctx context.Context, content []byte) (*domain.ExtractionResult, bool)
	Put(ctx context.Context, content []byte, result *domain.ExtractionResult, ttl time.Duration) bool
	Stats(ctx context.Context) domain.CacheStats
	Disconnect() error
}
