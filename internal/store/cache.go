package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/metrics"
)

// redisCache is an optional read-through cache for hot read paths (weekly
// schedule, per-date waitlist counts). Writes invalidate their keys so the
// next poll sees fresh data within one cycle.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// UseRedisCache attaches Redis caching with the given TTL.
func (db *DB) UseRedisCache(client *redis.Client, ttl time.Duration) {
	if client == nil || ttl <= 0 {
		return
	}
	db.cache = &redisCache{client: client, ttl: ttl}
}

// CachePing checks cache liveness for the readiness probe. Nil when no cache
// is attached.
func (db *DB) CachePing(ctx context.Context) error {
	if db.cache == nil {
		return nil
	}
	return db.cache.client.Ping(ctx).Err()
}

func (db *DB) readCache(ctx context.Context, key string, out any) bool {
	if db.cache == nil {
		return false
	}
	val, err := db.cache.client.Get(ctx, key).Result()
	if err != nil {
		metrics.IncCacheHit("miss")
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		metrics.IncCacheHit("miss")
		return false
	}
	metrics.IncCacheHit("hit")
	return true
}

func (db *DB) writeCache(ctx context.Context, key string, val any) {
	if db.cache == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = db.cache.client.Set(ctx, key, data, db.cache.ttl).Err()
}

func (db *DB) invalidateCache(ctx context.Context, keys ...string) {
	if db.cache == nil || len(keys) == 0 {
		return
	}
	_ = db.cache.client.Del(ctx, keys...).Err()
}
