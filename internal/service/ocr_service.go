package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ocrgate/internal/contentkey"
	"ocrgate/internal/domain"
	"ocrgate/internal/gate"
	"ocrgate/internal/port"
)

// ServiceName identifies this service in health and stats output.
const ServiceName = "ocrgate OCR Service"

// OCRServiceConfig holds pipeline settings.
type OCRServiceConfig struct {
	CacheTTL       time.Duration
	TempDir        string
	ArchiveTimeout time.Duration
}

// OCRService defines the extraction pipeline contract.
type OCRService interface {
	// Initialize loads the engine and connects the cache. Calling it again
	// once it has succeeded is a no-op.
	Initialize(ctx context.Context) error
	Initialized() bool
	// Process returns the extraction result for content. It never returns
	// nil and never panics; failures come back as failure-shaped envelopes.
	Process(ctx context.Context, content []byte, filename string) *domain.Envelope
	ModelInfo() domain.ModelInfo
	// Cleanup waits for background uploads and disconnects the cache.
	Cleanup(ctx context.Context) error
}

type ocrService struct {
	engine   port.ExtractionEngine
	cache    port.ResultCache
	gate     *gate.Gate
	keys     *contentkey.Deriver
	archiver Archiver
	cfg      OCRServiceConfig
	now      func() time.Time

	mu          sync.Mutex
	initialized bool

	// bgMu orders background.Add against Cleanup's Wait.
	bgMu       sync.Mutex
	closing    bool
	background sync.WaitGroup
}

// NewOCRService creates a new OCRService implementation.
func NewOCRService(
	engine port.ExtractionEngine,
	cache port.ResultCache,
	g *gate.Gate,
	keys *contentkey.Deriver,
	archiver Archiver,
	cfg OCRServiceConfig,
) OCRService {
	if keys == nil {
		keys = contentkey.Default()
	}
	if archiver == nil {
		archiver = NewNoopArchiver()
	}
	if cfg.ArchiveTimeout <= 0 {
		cfg.ArchiveTimeout = 30 * time.Second
	}
	return &ocrService{
		engine:   engine,
		cache:    cache,
		gate:     g,
		keys:     keys,
		archiver: archiver,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *ocrService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	// Cached results stay servable even when the engine cannot load.
	if !s.cache.Connect(ctx) {
		log.Warn().Msg("ocrService.Initialize: result cache unavailable, continuing without cache")
	}

	start := time.Now()
	if err := s.engine.Load(ctx); err != nil {
		log.Error().Err(err).Msg("ocrService.Initialize: extraction engine failed to load")
		return fmt.Errorf("loading extraction engine: %w", err)
	}

	s.initialized = true
	s.bgMu.Lock()
	s.closing = false
	s.bgMu.Unlock()
	log.Info().Dur("elapsed", time.Since(start)).Str("engine", s.engine.Info().Provider).
		Int("gate_capacity", s.gate.Capacity()).Msg("ocrService.Initialize: ready")
	return nil
}

func (s *ocrService) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *ocrService) Process(ctx context.Context, content []byte, filename string) (env *domain.Envelope) {
	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Str("filename", filename).
				Msg("ocrService.Process: unexpected failure")
			env = s.envelope(domain.FailedResult(fmt.Errorf("internal error: %v", r)), false, start)
		}
	}()

	if cached, ok := s.cache.Get(ctx, content); ok {
		return s.envelope(cached, true, start)
	}

	result := s.extract(ctx, content, filename)
	if result.Success {
		if !s.cache.Put(ctx, content, result, s.cfg.CacheTTL) && s.cache.Connected() {
			log.Warn().Str("filename", filename).Msg("ocrService.Process: result not cached")
		}
		s.archive(content, filename, result)
	} else {
		log.Warn().Str("filename", filename).Str("error", result.Error).Msg("ocrService.Process: extraction failed")
	}

	return s.envelope(result, false, start)
}

func (s *ocrService) ModelInfo() domain.ModelInfo {
	return s.engine.Info()
}

func (s *ocrService) Cleanup(ctx context.Context) error {
	s.bgMu.Lock()
	s.closing = true
	s.bgMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("ocrService.Cleanup: gave up waiting for archive uploads")
	}

	s.mu.Lock()
	s.initialized = false
	s.mu.Unlock()

	if err := s.cache.Disconnect(); err != nil {
		return fmt.Errorf("disconnecting cache: %w", err)
	}
	return nil
}

// extract runs the engine under the gate. The worker goroutine owns the
// slot and releases it when the engine returns, even if the caller has
// stopped waiting.
func (s *ocrService) extract(ctx context.Context, content []byte, filename string) *domain.ExtractionResult {
	if err := s.gate.Acquire(ctx); err != nil {
		return domain.FailedResult(fmt.Errorf("%w: %v", domain.ErrRequestCanceled, err))
	}

	done := make(chan *domain.ExtractionResult, 1)
	go func() {
		defer s.gate.Release()
		done <- s.runEngine(ctx, content, filename)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		log.Warn().Str("filename", filename).Msg("ocrService.extract: request abandoned during extraction")
		return domain.FailedResult(fmt.Errorf("%w: %v", domain.ErrRequestCanceled, ctx.Err()))
	}
}

func (s *ocrService) runEngine(ctx context.Context, content []byte, filename string) (result *domain.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("ocrService.runEngine: engine panicked")
			result = domain.FailedResult(fmt.Errorf("extraction engine panicked: %v", r))
		}
	}()

	path, cleanup, err := writeTempImage(s.cfg.TempDir, content, filename)
	if err != nil {
		return domain.FailedResult(fmt.Errorf("writing temp image: %w", err))
	}
	defer cleanup()

	out, err := s.engine.Extract(ctx, path)
	if err != nil {
		return domain.FailedResult(err)
	}
	if out == nil {
		return domain.FailedResult(domain.ErrExtractionFailed)
	}
	if !out.Success {
		failed := domain.FailedResult(errors.New(out.Error))
		if out.Error == "" {
			failed.Error = domain.ErrExtractionFailed.Error()
		}
		failed.ProcessTime = out.ProcessTime
		return failed
	}
	return out
}

func (s *ocrService) archive(content []byte, filename string, result *domain.ExtractionResult) {
	if !s.archiver.Enabled() {
		return
	}
	input := ArchiveInput{
		Key:      s.keys.Derive(content),
		Filename: filename,
		Content:  content,
		Result:   result,
	}

	s.bgMu.Lock()
	if s.closing {
		s.bgMu.Unlock()
		log.Warn().Str("key", input.Key.String()).Msg("ocrService.archive: shutting down, upload skipped")
		return
	}
	s.background.Add(1)
	s.bgMu.Unlock()

	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ArchiveTimeout)
		defer cancel()
		if err := s.archiver.Archive(ctx, input); err != nil {
			log.Warn().Err(err).Str("key", input.Key.String()).Msg("ocrService.archive: upload failed")
		}
	}()
}

func (s *ocrService) envelope(result *domain.ExtractionResult, fromCache bool, start time.Time) *domain.Envelope {
	return &domain.Envelope{
		ExtractionResult: *result,
		FromCache:        fromCache,
		TotalTime:        domain.Seconds(s.now().Sub(start)),
	}
}

// writeTempImage materializes content as a file whose suffix is the
// extension of filename (possibly empty). The returned cleanup removes it.
func writeTempImage(dir string, content []byte, filename string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "ocr-*"+safeExt(filename))
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("ocrService: failed to remove temp image")
		}
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// safeExt returns the extension of filename reduced to [A-Za-z0-9.], or ""
// when nothing but the dot is left.
func safeExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			return r
		}
		return -1
	}, ext)
	if clean == "." {
		return ""
	}
	return clean
}
