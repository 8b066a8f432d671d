package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrgate/internal/config"
	"ocrgate/internal/logger"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	log.Debug().Str("key", "ocr:abc").Msg("cache.Get: hit")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "ocr:abc", entry["key"])
	assert.Equal(t, "cache.Get: hit", entry["message"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetup_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWithWriter(config.LogConfig{Level: "loud", Format: "json"}, &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
