package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"ocrgate/internal/config"
	"ocrgate/internal/contentkey"
	"ocrgate/internal/domain"
	"ocrgate/internal/port"
)

// ArchiveInput is the DTO for archiving one extraction.
type ArchiveInput struct {
	Key      contentkey.Key
	Filename string
	Content  []byte
	Result   *domain.ExtractionResult
}

// Archiver keeps a copy of extraction inputs and results.
type Archiver interface {
	Enabled() bool
	Archive(ctx context.Context, input ArchiveInput) error
}

type objectArchiver struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewArchiver creates an Archiver that writes to object storage.
func NewArchiver(storage port.ObjectStorage, bucket string, cfg config.ArchiveConfig) Archiver {
	return &objectArchiver{
		storage: storage,
		bucket:  bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
	}
}

func (a *objectArchiver) Enabled() bool { return true }

func (a *objectArchiver) Archive(ctx context.Context, input ArchiveInput) error {
	if input.Result == nil {
		return fmt.Errorf("archive %s: nil result", input.Key)
	}
	resultJSON, err := json.Marshal(input.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	imageKey, resultKey := ArchiveKeys(a.prefix, input.Key, input.Filename)

	if _, err := a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         imageKey,
		Body:        bytes.NewReader(input.Content),
		ContentType: http.DetectContentType(input.Content),
		Size:        int64(len(input.Content)),
	}); err != nil {
		return fmt.Errorf("uploading image: %w", err)
	}

	if _, err := a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         resultKey,
		Body:        bytes.NewReader(resultJSON),
		ContentType: "application/json",
		Size:        int64(len(resultJSON)),
	}); err != nil {
		return fmt.Errorf("uploading result: %w", err)
	}

	log.Debug().Str("image", imageKey).Str("result", resultKey).Msg("archiver.Archive: stored")
	return nil
}

// ArchiveKeys returns the object keys for the image and result of key.
func ArchiveKeys(prefix string, key contentkey.Key, filename string) (imageKey, resultKey string) {
	ext := strings.ToLower(safeExt(filename))
	digest := key.Digest()
	return path.Join(prefix, "images", digest+ext), path.Join(prefix, "results", digest+".json")
}

type noopArchiver struct{}

// NewNoopArchiver creates an Archiver that discards everything.
func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Enabled() bool { return false }

func (noopArchiver) Archive(context.Context, ArchiveInput) error { return nil }
