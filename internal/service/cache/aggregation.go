package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/domain/repository"
	"MarketSnap/pkg/logger"
)

// DefaultTTL is how long a fetched bundle is served before refetching.
const DefaultTTL = 30 * time.Minute

// Loader fetches everything for a lookback window.
type Loader func(ctx context.Context, window int) (*models.Bundle, error)

// AggregationCache memoizes bundles by window. Concurrent misses for the
// same window share one load.
type AggregationCache struct {
	ttl     time.Duration
	l1      *TTLCache
	l2      BytesCache
	group   singleflight.Group
	log     *logger.Logger
	metrics repository.Metrics
	now     func() time.Time
}

// AggregationOption configures AggregationCache.
type AggregationOption func(*AggregationCache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) AggregationOption {
	return func(c *AggregationCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithL2 adds a shared second level, e.g. Redis.
func WithL2(l2 BytesCache) AggregationOption {
	return func(c *AggregationCache) {
		c.l2 = l2
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) AggregationOption {
	return func(c *AggregationCache) {
		c.now = now
	}
}

// NewAggregationCache creates a window-keyed bundle cache.
func NewAggregationCache(log *logger.Logger, m repository.Metrics, opts ...AggregationOption) *AggregationCache {
	c := &AggregationCache{
		ttl:     DefaultTTL,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.l1 = NewTTLCache().WithClock(c.now)
	return c
}

// TTL returns the configured entry lifetime.
func (c *AggregationCache) TTL() time.Duration { return c.ttl }

func bundleKey(window int) string {
	return "bundle:" + strconv.Itoa(window)
}

// Get returns the bundle for window, calling load at most once per window
// per TTL period. Load errors are returned and not cached.
func (c *AggregationCache) Get(ctx context.Context, window int, load Loader) (*models.Bundle, error) {
	key := bundleKey(window)
	if b, ok := c.lookupL1(key); ok {
		c.metrics.RecordCache("hit")
		return b, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		if b, ok := c.lookupL1(key); ok {
			return b, nil
		}
		if b, ok := c.lookupL2(ctx, key); ok {
			c.metrics.RecordCache("l2_hit")
			c.l1.Set(key, b, c.remaining(b))
			return b, nil
		}

		c.metrics.RecordCache("miss")
		start := c.now()
		// Detached so one caller's cancellation does not fail the others.
		b, err := load(context.WithoutCancel(ctx), window)
		if err != nil {
			return nil, err
		}
		if b.FetchedAt.IsZero() {
			b.FetchedAt = start
		}
		c.l1.Set(key, b, c.ttl)
		c.storeL2(ctx, key, b)
		c.log.Info("bundle cached",
			logger.Int("window", window),
			logger.Duration("load_ms", c.now().Sub(start)),
		)
		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load window %d: %w", window, err)
	}
	if shared {
		c.metrics.RecordCache("shared")
	}
	return v.(*models.Bundle), nil
}

// Invalidate drops the entry for window from both levels.
func (c *AggregationCache) Invalidate(ctx context.Context, window int) {
	key := bundleKey(window)
	c.l1.Remove(key)
	c.group.Forget(key)
	if c.l2 == nil {
		return
	}
	if err := c.l2.Delete(ctx, key); err != nil {
		c.log.Warn("l2 delete failed", logger.String("key", key), logger.Error(err))
	}
}

func (c *AggregationCache) lookupL1(key string) (*models.Bundle, bool) {
	v, ok := c.l1.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.(*models.Bundle)
	return b, ok
}

func (c *AggregationCache) lookupL2(ctx context.Context, key string) (*models.Bundle, bool) {
	if c.l2 == nil {
		return nil, false
	}
	raw, ok, err := c.l2.GetBytes(ctx, key)
	if err != nil {
		c.log.Warn("l2 get failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var b models.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		c.log.Warn("l2 decode failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	if c.remaining(&b) <= 0 {
		return nil, false
	}
	return &b, true
}

func (c *AggregationCache) storeL2(ctx context.Context, key string, b *models.Bundle) {
	if c.l2 == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		c.log.Warn("l2 encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := c.l2.SetBytes(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn("l2 set failed", logger.String("key", key), logger.Error(err))
	}
}

// remaining is the lifetime left for a bundle fetched at b.FetchedAt.
func (c *AggregationCache) remaining(b *models.Bundle) time.Duration {
	return c.ttl - c.now().Sub(b.FetchedAt)
}
