// Package tesseract provides extraction engines backed by Tesseract OCR.
package tesseract

import (
	"strings"
	"time"

	"ocrgate/internal/domain"
)

const defaultLanguage = "eng"

// buildResult assembles a successful result from recognized words. Confidence
// is the mean word confidence.
func buildResult(text string, words []domain.Word, start time.Time) *domain.ExtractionResult {
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	confidence := 0.0
	if len(words) > 0 {
		confidence = sum / float64(len(words))
	}
	return &domain.ExtractionResult{
		Success:     true,
		Text:        strings.TrimSpace(text),
		Confidence:  domain.ClampConfidence(confidence),
		WordCount:   len(words),
		Words:       words,
		ProcessTime: domain.Seconds(time.Since(start)),
	}
}

func languagesOrDefault(langs []string) []string {
	if len(langs) == 0 {
		return []string{defaultLanguage}
	}
	return langs
}
