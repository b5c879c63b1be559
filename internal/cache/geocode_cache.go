// Package cache holds the optional Redis-backed geocode cache. A cache
// miss or a Redis failure is never fatal to a request; callers fall
// through to the provider.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

const geocodeKeyPrefix = "geocode:"

type GeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGeocodeCache(rdb *redis.Client, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{rdb: rdb, ttl: ttl}
}

// normalize collapses whitespace so that cache keys are consistent
// across differently formatted copies of the same address.
func normalize(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

func (c *GeocodeCache) Get(ctx context.Context, address string) (model.Coordinate, bool, error) {
	key := geocodeKeyPrefix + normalize(address)

	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return model.Coordinate{}, false, nil
	}
	if err != nil {
		return model.Coordinate{}, false, fmt.Errorf("geocode cache get %q: %w", address, err)
	}

	var coord model.Coordinate
	if err := json.Unmarshal([]byte(val), &coord); err != nil {
		return model.Coordinate{}, false, fmt.Errorf("geocode cache decode %q: %w", address, err)
	}

	return coord, true, nil
}

func (c *GeocodeCache) Put(ctx context.Context, address string, coord model.Coordinate) error {
	key := geocodeKeyPrefix + normalize(address)

	payload, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("geocode cache encode %q: %w", address, err)
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("geocode cache put %q: %w", address, err)
	}

	return nil
}
