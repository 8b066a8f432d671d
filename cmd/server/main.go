// @title ocrgate API
// @version 1.0
// @description Document image text extraction with a content-addressed result cache.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ocrgate/internal/cache/redis"
	"ocrgate/internal/config"
	"ocrgate/internal/contentkey"
	"ocrgate/internal/domain"
	"ocrgate/internal/engine"
	_ "ocrgate/internal/engine/tesseract" // registers tesseract providers
	"ocrgate/internal/gate"
	"ocrgate/internal/handler"
	"ocrgate/internal/logger"
	"ocrgate/internal/router"
	"ocrgate/internal/service"
	s3storage "ocrgate/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keys, err := contentkey.New(cfg.Cache.KeyPrefix, domain.DigestAlgorithm(cfg.Cache.Digest))
	if err != nil {
		return fmt.Errorf("invalid cache key settings: %w", err)
	}

	eng, err := engine.New(&cfg.Engine)
	if err != nil {
		return fmt.Errorf("failed to create extraction engine: %w", err)
	}

	cache := redis.NewRedisCache(cfg.Cache, keys)
	g := gate.New(cfg.Gate.Capacity)

	archiver := service.NewNoopArchiver()
	if cfg.Archive.Enabled {
		s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		archiver = service.NewArchiver(s3Client, cfg.S3.Bucket, cfg.Archive)
		log.Info().Str("bucket", cfg.S3.Bucket).Str("prefix", cfg.Archive.Prefix).Msg("result archive enabled")
	}

	// Initialize services
	ocrSvc := service.NewOCRService(eng, cache, g, keys, archiver, service.OCRServiceConfig{
		CacheTTL:       cfg.Cache.TTL,
		TempDir:        os.TempDir(),
		ArchiveTimeout: cfg.Archive.Timeout,
	})
	statsSvc := service.NewStatsService(ocrSvc, eng, cache, g)

	// A failed engine load leaves the service up but unhealthy.
	if err := ocrSvc.Initialize(ctx); err != nil {
		log.Error().Err(err).Msg("OCR service started in degraded mode")
	}

	// Initialize handlers
	ocrH := handler.NewOCRHandler(ocrSvc, statsSvc, cfg.Upload.MaxBytes())
	healthH := handler.NewHealthHandler(statsSvc)

	// Setup router
	r := router.Setup(ocrH, healthH, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = ocrSvc.Cleanup(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := ocrSvc.Cleanup(shutdownCtx); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
