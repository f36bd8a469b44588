package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"capitalperf/internal/config"
)

// PriceSource resolves a historical close for an instrument near a date.
type PriceSource interface {
	ResolveClose(ctx context.Context, epic string, target time.Time) (*float64, error)
}

// Retention tiers.
const (
	settledAfter = 48 * time.Hour
	settledTTL   = 30 * 24 * time.Hour
	recentTTL    = 10 * time.Minute
)

// PriceCache wraps a PriceSource with Redis memoization.
type PriceCache struct {
	source PriceSource
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// New connects to Redis and wraps source with the cache.
func New(cfg config.CacheConfig, source PriceSource, logger *slog.Logger) (*PriceCache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &PriceCache{
		source: source,
		client: client,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Key returns the cache key for an instrument's close on a date.
func Key(epic string, target time.Time) string {
	return "close:" + epic + ":" + target.Format("2006-01-02")
}

// entry wraps the cached value. A present entry with a nil price means the
// provider had no history for that date.
type entry struct {
	Price *float64 `json:"price"`
}

// ResolveClose looks the close up in Redis first and falls through to the
// wrapped source on a miss. Source errors are never cached.
func (c *PriceCache) ResolveClose(ctx context.Context, epic string, target time.Time) (*float64, error) {
	key := Key(epic, target)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var e entry
		if unmarshalErr := json.Unmarshal([]byte(cached), &e); unmarshalErr == nil {
			return e.Price, nil
		}
		c.logger.Warn("cache entry corrupt", "key", key)
	case err != redis.Nil:
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	price, err := c.source.ResolveClose(ctx, epic, target)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(entry{Price: price})
	if err := c.client.Set(ctx, key, data, c.ttl(target)).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return price, nil
}

// ttl picks the retention tier for a target date.
func (c *PriceCache) ttl(target time.Time) time.Duration {
	if c.now().Sub(target) >= settledAfter {
		return settledTTL
	}
	return recentTTL
}

// Close releases the Redis connection.
func (c *PriceCache) Close() error {
	return c.client.Close()
}
