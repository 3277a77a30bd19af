package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitquant/fundcore/pkg/config"
)

func TestDisabledClient(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Enabled: false},
	}

	client, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestDisabledCache(t *testing.T) {
	client := &Client{enabled: false}
	cache := NewCache(client, "fundcore")

	ctx := context.Background()

	// Set is a no-op
	err := cache.Set(ctx, DailyIndexKey("2024-05-01"), "payload", TTLIndex)
	assert.NoError(t, err)

	// Get always misses
	var dest string
	found, err := cache.Get(ctx, DailyIndexKey("2024-05-01"), &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Delete(ctx, DailyIndexKey("2024-05-01")))
}

func TestDisabledRateLimiter(t *testing.T) {
	client := &Client{enabled: false}
	limiter := NewRateLimiter(client, "fundcore")

	ctx := context.Background()

	// All requests allowed when Redis is disabled
	for i := 0; i < 20; i++ {
		allowed, remaining, err := limiter.Allow(ctx, EDGARRateLimit)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, EDGARRateLimit.Limit, remaining)
	}

	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, limiter.Wait(ctx2, EDGARRateLimit))
}

func TestDailyIndexKey(t *testing.T) {
	assert.Equal(t, "edgar:index:2024-05-01", DailyIndexKey("2024-05-01"))
}
