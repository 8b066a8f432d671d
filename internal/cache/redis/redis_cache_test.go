package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrgate/internal/cache/redis"
	"ocrgate/internal/config"
	"ocrgate/internal/contentkey"
	"ocrgate/internal/domain"
	"ocrgate/internal/port"
)

func cacheConfig(url string) config.CacheConfig {
	return config.CacheConfig{
		URL:         url,
		TTL:         time.Hour,
		DialTimeout: 200 * time.Millisecond,
		OpTimeout:   500 * time.Millisecond,
	}
}

func connectedCache(t *testing.T) (port.ResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewRedisCache(cacheConfig("redis://"+mr.Addr()), contentkey.Default())
	require.True(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Disconnect() })
	return c, mr
}

func helloResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		Success:     true,
		Text:        "HELLO",
		Confidence:  0.92,
		WordCount:   1,
		Words:       []domain.Word{{Text: "HELLO", Confidence: 0.92}},
		ProcessTime: domain.Seconds(1500 * time.Millisecond),
	}
}

func TestRedisCache_PutThenGet_RoundTrip(t *testing.T) {
	c, _ := connectedCache(t)
	ctx := context.Background()
	content := []byte("image-x")

	require.True(t, c.Put(ctx, content, helloResult(), 0))

	got, ok := c.Get(ctx, content)
	require.True(t, ok)
	assert.Equal(t, helloResult(), got)
}

func TestRedisCache_PutThenGet_ExactRoundTrip(t *testing.T) {
	c, _ := connectedCache(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		result *domain.ExtractionResult
	}{
		{"empty word list", &domain.ExtractionResult{Success: true, Words: []domain.Word{}}},
		{"nil word list", &domain.ExtractionResult{Success: true, Text: "x"}},
	}
	for k := 0; k < 26; k++ {
		d := time.Duration(1e9 + k*1013*7919)
		tests = append(tests, struct {
			name   string
			result *domain.ExtractionResult
		}{d.String(), &domain.ExtractionResult{Success: true, Text: "t", ProcessTime: domain.Seconds(d)}})
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte(fmt.Sprintf("round-trip-%d", i))
			require.True(t, c.Put(ctx, content, tt.result, 0))

			got, ok := c.Get(ctx, content)
			require.True(t, ok)
			assert.Equal(t, tt.result, got)
		})
	}
}

func TestRedisCache_KeyLayoutAndTTL(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("image-x")

	require.True(t, c.Put(context.Background(), content, helloResult(), 0))

	key := contentkey.Derive(content).String()
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, stored, `"extracted_words"`)
	assert.Contains(t, stored, `"process_time":1.5`)
}

func TestRedisCache_ExplicitTTL(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("short-lived")

	require.True(t, c.Put(context.Background(), content, helloResult(), time.Minute))

	assert.Equal(t, time.Minute, mr.TTL(contentkey.Derive(content).String()))
}

func TestRedisCache_ExpiredEntryMisses(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("image-x")
	require.True(t, c.Put(context.Background(), content, helloResult(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(context.Background(), content)
	assert.False(t, ok)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := connectedCache(t)

	got, ok := c.Get(context.Background(), []byte("never stored"))

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisCache_EmptyContentIsCached(t *testing.T) {
	c, _ := connectedCache(t)

	require.True(t, c.Put(context.Background(), []byte{}, helloResult(), 0))

	_, ok := c.Get(context.Background(), nil)
	assert.True(t, ok)
}

func TestRedisCache_RefusesFailedResult(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("bad")

	ok := c.Put(context.Background(), content, &domain.ExtractionResult{Success: false, Error: "bad image"}, 0)

	assert.False(t, ok)
	assert.False(t, mr.Exists(contentkey.Derive(content).String()))
	assert.False(t, c.Put(context.Background(), content, nil, 0))
}

func TestRedisCache_UndecodableEntryMisses(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("corrupt")
	require.NoError(t, mr.Set(contentkey.Derive(content).String(), "{not json"))

	_, ok := c.Get(context.Background(), content)

	assert.False(t, ok)
}

func TestRedisCache_NotConnected(t *testing.T) {
	c := redis.NewRedisCache(cacheConfig("redis://127.0.0.1:6379"), nil)

	assert.False(t, c.Connected())
	_, ok := c.Get(context.Background(), []byte("x"))
	assert.False(t, ok)
	assert.False(t, c.Put(context.Background(), []byte("x"), helloResult(), 0))
	assert.Equal(t, domain.CacheStats{Connected: false}, c.Stats(context.Background()))
	assert.NoError(t, c.Disconnect())
}

func TestRedisCache_ConnectUnconfigured(t *testing.T) {
	c := redis.NewRedisCache(cacheConfig(""), nil)

	assert.False(t, c.Connect(context.Background()))
	assert.False(t, c.Connected())
}

func TestRedisCache_ConnectInvalidURL(t *testing.T) {
	c := redis.NewRedisCache(cacheConfig("http://not-redis"), nil)

	assert.False(t, c.Connect(context.Background()))
}

func TestRedisCache_ConnectUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := redis.NewRedisCache(cacheConfig("redis://"+addr), nil)

	assert.False(t, c.Connect(context.Background()))
	_, ok := c.Get(context.Background(), []byte("x"))
	assert.False(t, ok)
	assert.False(t, c.Put(context.Background(), []byte("x"), helloResult(), 0))
}

func TestRedisCache_StoreErrorsDegrade(t *testing.T) {
	c, mr := connectedCache(t)
	content := []byte("image-x")
	require.True(t, c.Put(context.Background(), content, helloResult(), 0))

	mr.SetError("LOADING store is restarting")

	_, ok := c.Get(context.Background(), content)
	assert.False(t, ok)
	assert.False(t, c.Put(context.Background(), content, helloResult(), 0))
	stats := c.Stats(context.Background())
	assert.False(t, stats.Connected)
	assert.NotEmpty(t, stats.Error)
}

func TestRedisCache_Stats(t *testing.T) {
	c, _ := connectedCache(t)
	ctx := context.Background()
	require.True(t, c.Put(ctx, []byte("a"), helloResult(), 0))
	require.True(t, c.Put(ctx, []byte("b"), helloResult(), 0))

	stats := c.Stats(ctx)

	assert.True(t, stats.Connected)
	assert.Equal(t, int64(2), stats.Keys)
	assert.NotEmpty(t, stats.Memory)
}

func TestRedisCache_DisconnectIdempotent(t *testing.T) {
	c, _ := connectedCache(t)

	require.NoError(t, c.Disconnect())
	assert.False(t, c.Connected())
	assert.NoError(t, c.Disconnect())

	_, ok := c.Get(context.Background(), []byte("x"))
	assert.False(t, ok)
}

func TestRedisCache_ConnectIdempotent(t *testing.T) {
	c, _ := connectedCache(t)

	assert.True(t, c.Connect(context.Background()))
	assert.True(t, c.Connected())
}
