package port

import (
	"context"

	"ocrgate/internal/domain"
)

// TextExtractor is the recognition capability: it reads the image at
// imagePath and returns the recognized text. A returned error and a result
// with Success=false are both treated as extraction failures.
type TextExtractor interface {
	Extract(ctx context.Context, imagePath string) (*domain.ExtractionResult, error)
}

// ExtractionEngine is a TextExtractor with a load step and static metadata.
type ExtractionEngine interface {
	TextExtractor
	// Load prepares the engine. Safe to call more than once.
	Load(ctx context.Context) error
	// Ready reports whether Load has succeeded.
	Ready() bool
	Info() domain.ModelInfo
}
