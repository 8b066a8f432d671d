package domain

import "errors"

var (
	ErrMissingFile       = errors.New("file field is required")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed  = errors.New("text extraction failed")
	ErrEngineUnavailable = errors.New("extraction engine is not available")
	ErrNotInitialized    = errors.New("service is not initialized")
	ErrUnknownProvider   = errors.New("unknown extraction provider")
	ErrUnsupportedDigest = errors.New("unsupported digest algorithm")
	ErrRequestCanceled   = errors.New("request canceled before extraction finished")
)
