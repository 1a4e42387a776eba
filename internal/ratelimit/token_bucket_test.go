package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telvoralabs/telvora/internal/config"
)

func newTestBucket(t *testing.T) *TokenBucket {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenBucket(client)
}

func TestTokenBucket_AllowWithinBurst(t *testing.T) {
	bucket := newTestBucket(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := bucket.Allow(ctx, "customer:1", 1, 3)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := bucket.Allow(ctx, "customer:1", 1, 3)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestTokenBucket_KeysAreIndependent(t *testing.T) {
	bucket := newTestBucket(t)
	ctx := context.Background()

	allowed, err := bucket.Allow(ctx, "customer:1", 1, 1)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = bucket.Allow(ctx, "customer:1", 1, 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = bucket.Allow(ctx, "customer:2", 1, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucket_InvalidArguments(t *testing.T) {
	bucket := newTestBucket(t)
	ctx := context.Background()

	_, err := bucket.Allow(ctx, "", 1, 1)
	assert.Error(t, err)

	_, err = bucket.Allow(ctx, "k", 0, 1)
	assert.Error(t, err)

	_, err = bucket.Allow(ctx, "k", 1, 0)
	assert.Error(t, err)

	var nilBucket *TokenBucket
	_, err = nilBucket.Allow(ctx, "k", 1, 1)
	assert.Error(t, err)
}

func TestUsageIngestLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter, err := NewUsageIngestLimiter(config.Config{})
	require.NoError(t, err)
	require.Nil(t, limiter)

	// Nil limiter means rate limiting is off, never a panic.
	allowed, err := limiter.AllowCustomer(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestUsageIngestLimiter_Enabled(t *testing.T) {
	mr := miniredis.RunT(t)

	limiter, err := NewUsageIngestLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:          true,
			RedisAddr:        mr.Addr(),
			UsageIngestRate:  1,
			UsageIngestBurst: 2,
		},
	})
	require.NoError(t, err)
	require.True(t, limiter.Enabled())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allowed, err := limiter.AllowCustomer(ctx, "42")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := limiter.AllowCustomer(ctx, "42")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestUsageIngestLimiter_ConfigValidation(t *testing.T) {
	_, err := NewUsageIngestLimiter(config.Config{
		RateLimit: config.RateLimitConfig{Enabled: true},
	})
	assert.Error(t, err)

	_, err = NewUsageIngestLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:   true,
			RedisAddr: "localhost:6379",
		},
	})
	assert.Error(t, err)
}
