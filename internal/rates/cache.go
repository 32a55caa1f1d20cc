package rates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmoreno/cv-studio/internal/types"
)

const cacheKey = "cvstudio:rates:eur"

// Cache stores the latest rate snapshot in Redis with a TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a Redis-backed rates cache. A non-positive TTL defaults
// to one hour.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot, or nil when the key is absent.
func (c *Cache) Get(ctx context.Context) (*types.ExchangeRates, error) {
	raw, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rates types.ExchangeRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}

// Set stores a snapshot under the cache TTL.
func (c *Cache) Set(ctx context.Context, rates *types.ExchangeRates) error {
	raw, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey, raw, c.ttl).Err()
}
