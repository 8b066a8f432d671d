package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Cache   CacheConfig
	Gate    GateConfig
	Engine  EngineConfig
	Upload  UploadConfig
	Archive ArchiveConfig
	S3      S3Config
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	URL         string        `mapstructure:"url"`
	TTL         time.Duration `mapstructure:"ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	Digest      string        `mapstructure:"digest"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
}

// GateConfig holds extraction concurrency settings.
type GateConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// EngineConfig selects and tunes the extraction engine.
type EngineConfig struct {
	Provider   string        `mapstructure:"provider"`
	Languages  []string      `mapstructure:"languages"`
	BinaryPath string        `mapstructure:"binary_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload size limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// ArchiveConfig controls copying extraction inputs and results to object storage.
type ArchiveConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the OCRGATE_
// prefix. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OCRGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Cache defaults
	v.SetDefault("cache.url", "redis://localhost:6379")
	v.SetDefault("cache.ttl", "3600s")
	v.SetDefault("cache.key_prefix", "ocr")
	v.SetDefault("cache.digest", "md5")
	v.SetDefault("cache.dial_timeout", "2s")
	v.SetDefault("cache.op_timeout", "1s")

	// Gate defaults
	v.SetDefault("gate.capacity", 3)

	// Engine defaults
	v.SetDefault("engine.provider", "tesseract-cli")
	v.SetDefault("engine.languages", "eng")
	v.SetDefault("engine.binary_path", "tesseract")
	v.SetDefault("engine.timeout", "120s")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.prefix", "ocr")
	v.SetDefault("archive.timeout", "30s")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "ocrgate-archive")
	v.SetDefault("s3.endpoint", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "OCRGATE_SERVER_PORT",
		"server.read_timeout":     "OCRGATE_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "OCRGATE_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "OCRGATE_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "OCRGATE_SERVER_ENVIRONMENT",
		"log.level":               "OCRGATE_LOG_LEVEL",
		"log.format":              "OCRGATE_LOG_FORMAT",
		"cache.url":               "OCRGATE_CACHE_URL",
		"cache.ttl":               "OCRGATE_CACHE_TTL",
		"cache.key_prefix":        "OCRGATE_CACHE_KEY_PREFIX",
		"cache.digest":            "OCRGATE_CACHE_DIGEST",
		"cache.dial_timeout":      "OCRGATE_CACHE_DIAL_TIMEOUT",
		"cache.op_timeout":        "OCRGATE_CACHE_OP_TIMEOUT",
		"gate.capacity":           "OCRGATE_GATE_CAPACITY",
		"engine.provider":         "OCRGATE_ENGINE_PROVIDER",
		"engine.languages":        "OCRGATE_ENGINE_LANGUAGES",
		"engine.binary_path":      "OCRGATE_ENGINE_BINARY_PATH",
		"engine.timeout":          "OCRGATE_ENGINE_TIMEOUT",
		"upload.max_file_size_mb": "OCRGATE_UPLOAD_MAX_FILE_SIZE_MB",
		"archive.enabled":         "OCRGATE_ARCHIVE_ENABLED",
		"archive.prefix":          "OCRGATE_ARCHIVE_PREFIX",
		"archive.timeout":         "OCRGATE_ARCHIVE_TIMEOUT",
		"s3.region":               "OCRGATE_S3_REGION",
		"s3.bucket":               "OCRGATE_S3_BUCKET",
		"s3.endpoint":             "OCRGATE_S3_ENDPOINT",
		"s3.access_key":           "OCRGATE_S3_ACCESS_KEY",
		"s3.secret_key":           "OCRGATE_S3_SECRET_KEY",
		"cors.allowed_origins":    "OCRGATE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT. Use it if OCRGATE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("OCRGATE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// REDIS_URL is honored when the prefixed variable is absent.
	cacheURL := v.GetString("cache.url")
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" && os.Getenv("OCRGATE_CACHE_URL") == "" {
		cacheURL = redisURL
	}
	cfg.Cache = CacheConfig{
		URL:         cacheURL,
		TTL:         v.GetDuration("cache.ttl"),
		KeyPrefix:   v.GetString("cache.key_prefix"),
		Digest:      strings.ToLower(v.GetString("cache.digest")),
		DialTimeout: v.GetDuration("cache.dial_timeout"),
		OpTimeout:   v.GetDuration("cache.op_timeout"),
	}
	cfg.Gate = GateConfig{
		Capacity: v.GetInt("gate.capacity"),
	}
	cfg.Engine = EngineConfig{
		Provider:   v.GetString("engine.provider"),
		Languages:  splitList(v.GetString("engine.languages")),
		BinaryPath: v.GetString("engine.binary_path"),
		Timeout:    v.GetDuration("engine.timeout"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled: v.GetBool("archive.enabled"),
		Prefix:  v.GetString("archive.prefix"),
		Timeout: v.GetDuration("archive.timeout"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

// splitList parses a comma or plus separated list, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '+' }) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
