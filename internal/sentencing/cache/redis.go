// Package cache stores computed outcomes keyed by input fingerprint. The
// engine is deterministic, so a cached outcome for a fingerprint never goes
// stale while the rules digest that is part of the fingerprint is unchanged.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"sentencer/internal/sentencing"
)

var (
	cacheGetDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentencer_outcome_cache_get_duration_ms",
		Help:    "Latency of outcome cache reads in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for cached outcomes
	outcomeKeyPrefix = "sentencer:outcome:"

	DefaultTTL = 24 * time.Hour
)

// RedisCache is the shared cache for multi-instance deployments.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisCacheOption func(*RedisCache)

// WithTTL sets the expiry of cached outcomes. Non-positive values are ignored.
func WithTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*sentencing.Outcome, error) {
	start := time.Now()
	defer func() {
		cacheGetDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if fingerprint == "" {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, outcomeKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached outcome: %w", err)
	}
	var out sentencing.Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode cached outcome: %w", err)
	}
	return &out, nil
}

func (c *RedisCache) Set(ctx context.Context, fingerprint string, outcome *sentencing.Outcome) error {
	if fingerprint == "" || outcome == nil {
		return nil
	}
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	if err := c.client.Set(ctx, outcomeKeyPrefix+fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached outcome: %w", err)
	}
	return nil
}
