// Package repository provides Postgres and Redis data access for the
// vehicle lookup and trip planning service.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ─── VehicleCache ───────────────────────────────────────────

// VehicleCache stores upstream vehicle payloads in Redis. The two
// upstream APIs are slow and rate-limited, and trim/type data for a
// given year/make/model is effectively static, so a generous TTL is
// safe.
//
// Cache failures degrade to a miss — a lookup must never fail because
// Redis is down.
type VehicleCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewVehicleCache creates a cache with the given TTL.
func NewVehicleCache(client *redis.Client, ttl time.Duration) *VehicleCache {
	return &VehicleCache{redis: client, ttl: ttl}
}

// cacheKey builds the Redis key for one upstream payload.
// Source is "carquery" or "nhtsa".
func cacheKey(source, makeName, modelName, year string) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return fmt.Sprintf("vehicle:%s:%s:%s:%s", source, norm(makeName), norm(modelName), year)
}

// Get returns the cached payload, or (nil, false) on a miss or error.
func (c *VehicleCache) Get(ctx context.Context, source, makeName, modelName, year string) (json.RawMessage, bool) {
	key := cacheKey(source, makeName, modelName, year)

	val, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] WARNING: get %s failed: %v — treating as miss", key, err)
		return nil, false
	}
	return json.RawMessage(val), true
}

// Set stores a payload. Fire-and-forget: errors are logged, not returned.
func (c *VehicleCache) Set(ctx context.Context, source, makeName, modelName, year string, payload json.RawMessage) {
	if payload == nil {
		return
	}
	key := cacheKey(source, makeName, modelName, year)
	if err := c.redis.Set(ctx, key, []byte(payload), c.ttl).Err(); err != nil {
		log.Printf("[cache] WARNING: set %s failed: %v", key, err)
	}
}
