package redis

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"ocrgate/internal/config"
	"ocrgate/internal/contentkey"
	"ocrgate/internal/domain"
	"ocrgate/internal/port"
)

// DefaultTTL is applied when Put is called without a positive TTL.
const DefaultTTL = time.Hour

type redisCache struct {
	cfg  config.CacheConfig
	keys *contentkey.Deriver

	mu     sync.RWMutex
	client *goredis.Client
}

// NewRedisCache creates a Redis-backed ResultCache. No connection is made
// until Connect is called; until then every operation is a pass-through.
func NewRedisCache(cfg config.CacheConfig, keys *contentkey.Deriver) port.ResultCache {
	if keys == nil {
		keys = contentkey.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &redisCache{cfg: cfg, keys: keys}
}

func (c *redisCache) Connect(ctx context.Context) bool {
	if c.Connected() {
		return true
	}
	if c.cfg.URL == "" {
		log.Warn().Msg("cache.Connect: no cache URL configured, caching disabled")
		return false
	}

	opts, err := goredis.ParseURL(c.cfg.URL)
	if err != nil {
		log.Warn().Err(err).Msg("cache.Connect: invalid cache URL, caching disabled")
		return false
	}
	if c.cfg.DialTimeout > 0 {
		opts.DialTimeout = c.cfg.DialTimeout
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := c.opContext(ctx)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("cache.Connect: store unreachable, caching disabled")
		return false
	}

	c.mu.Lock()
	if c.client != nil {
		// Lost a race with a concurrent Connect.
		c.mu.Unlock()
		_ = client.Close()
		return true
	}
	c.client = client
	c.mu.Unlock()

	log.Info().Str("addr", opts.Addr).Msg("cache.Connect: connected")
	return true
}

func (c *redisCache) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil
}

func (c *redisCache) Get(ctx context.Context, content []byte) (*domain.ExtractionResult, bool) {
	client := c.current()
	if client == nil {
		return nil, false
	}

	key := c.keys.Derive(content)
	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	data, err := client.Get(opCtx, key.String()).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.Error().Err(err).Str("key", key.String()).Msg("cache.Get: store error")
		}
		return nil, false
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Error().Err(err).Str("key", key.String()).Msg("cache.Get: undecodable entry")
		return nil, false
	}

	log.Info().Str("key", key.String()).Msg("cache.Get: hit")
	return &result, true
}

func (c *redisCache) Put(ctx context.Context, content []byte, result *domain.ExtractionResult, ttl time.Duration) bool {
	client := c.current()
	if client == nil {
		return false
	}
	if result == nil || !result.Success {
		return false
	}
	if ttl <= 0 {
		ttl = c.cfg.TTL
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("cache.Put: encode failed")
		return false
	}

	key := c.keys.Derive(content)
	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	if err := client.Set(opCtx, key.String(), data, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key.String()).Msg("cache.Put: store error")
		return false
	}

	log.Info().Str("key", key.String()).Dur("ttl", ttl).Msg("cache.Put: stored")
	return true
}

func (c *redisCache) Stats(ctx context.Context) domain.CacheStats {
	client := c.current()
	if client == nil {
		return domain.CacheStats{Connected: false}
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	keys, err := client.DBSize(opCtx).Result()
	if err != nil {
		log.Error().Err(err).Msg("cache.Stats: dbsize failed")
		return domain.CacheStats{Connected: false, Error: err.Error()}
	}

	stats := domain.CacheStats{Connected: true, Keys: keys, Memory: "0B"}
	info, err := client.Info(opCtx, "memory", "server").Result()
	if err != nil {
		log.Warn().Err(err).Msg("cache.Stats: info unavailable")
		return stats
	}
	fields := parseInfo(info)
	if mem, ok := fields["used_memory_human"]; ok {
		stats.Memory = mem
	}
	if up, ok := fields["uptime_in_seconds"]; ok {
		stats.Uptime, _ = strconv.ParseInt(up, 10, 64)
	}
	return stats
}

func (c *redisCache) Disconnect() error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	log.Info().Msg("cache.Disconnect: closing connection")
	return client.Close()
}

func (c *redisCache) current() *goredis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *redisCache) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.OpTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.OpTimeout)
	}
	return context.WithCancel(ctx)
}

// parseInfo reads the "field:value" lines of an INFO reply.
func parseInfo(info string) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, value, ok := strings.Cut(line, ":"); ok {
			fields[name] = value
		}
	}
	return fields
}
