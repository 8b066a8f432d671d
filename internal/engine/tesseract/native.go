//go:build gosseract && cgo

package tesseract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog/log"

	"ocrgate/internal/config"
	"ocrgate/internal/domain"
	"ocrgate/internal/engine"
	"ocrgate/internal/port"
)

// NativeProvider is the registry name of the in-process engine.
const NativeProvider = "tesseract"

func init() {
	engine.RegisterProvider(NativeProvider, func(cfg *config.EngineConfig) (port.ExtractionEngine, error) {
		return NewNativeEngine(cfg), nil
	})
}

// NativeEngine runs Tesseract in-process through libtesseract. A client is
// created per call since gosseract clients are not safe for concurrent use.
type NativeEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client

	mu      sync.RWMutex
	ready   bool
	version string
}

// NewNativeEngine constructs a gosseract-backed engine.
func NewNativeEngine(cfg *config.EngineConfig) *NativeEngine {
	return &NativeEngine{
		languages:     languagesOrDefault(cfg.Languages),
		clientFactory: gosseract.NewClient,
	}
}

func (e *NativeEngine) Load(_ context.Context) error {
	if e.Ready() {
		return nil
	}
	version := gosseract.Version()
	if version == "" {
		return fmt.Errorf("%w: libtesseract did not report a version", domain.ErrEngineUnavailable)
	}

	e.mu.Lock()
	e.ready = true
	e.version = version
	e.mu.Unlock()

	log.Info().Str("version", version).Strs("languages", e.languages).Msg("tesseract.NativeEngine.Load: ready")
	return nil
}

func (e *NativeEngine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Extract performs OCR on the image at imagePath.
func (e *NativeEngine) Extract(ctx context.Context, imagePath string) (*domain.ExtractionResult, error) {
	if !e.Ready() {
		if err := e.Load(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	return buildResult(text, extractWords(c), start), nil
}

func (e *NativeEngine) Info() domain.ModelInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.ModelInfo{
		Name:        "Tesseract OCR",
		Provider:    NativeProvider,
		Available:   true,
		Initialized: e.ready,
		Description: "LSTM text recognition via libtesseract",
		Version:     e.version,
		Languages:   e.languages,
	}
}

func extractWords(c *gosseract.Client) []domain.Word {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	words := make([]domain.Word, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" || b.Confidence < 0 {
			continue
		}
		words = append(words, domain.Word{Text: b.Word, Confidence: domain.ClampConfidence(b.Confidence / 100.0)})
	}
	return words
}
