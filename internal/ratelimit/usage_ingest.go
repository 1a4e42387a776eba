package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/telvoralabs/telvora/internal/config"
)

const keyUsageIngestCustomer = "usage:ingest:customer:%s"

// UsageIngestLimiter throttles usage-record ingestion per customer. A nil
// limiter (rate limiting disabled) allows everything.
type UsageIngestLimiter struct {
	enabled bool

	bucket *TokenBucket

	rate  float64
	burst int
}

func NewUsageIngestLimiter(cfg config.Config) (*UsageIngestLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.UsageIngestRate <= 0 || limitCfg.UsageIngestBurst <= 0 {
		return nil, errors.New("usage ingest rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &UsageIngestLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.UsageIngestRate,
		burst:   limitCfg.UsageIngestBurst,
	}, nil
}

func (l *UsageIngestLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *UsageIngestLimiter) AllowCustomer(ctx context.Context, customerID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyUsageIngestCustomer, strings.TrimSpace(customerID)), l.rate, l.burst)
}
