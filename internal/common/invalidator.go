package common

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const tagSetPrefix = "cache_tag:"

// Tag sets in Redis outlive any cache entry TTL so a slow instance can still
// find its keys; they are recreated on the next tagged read anyway.
const tagSetTTL = 24 * time.Hour

// Invalidator ties mutating operations to the read-side cache. Reads are
// served through GetOrSet under an entity tag; every successful mutation
// calls InvalidateTags for the entity classes it touched. Entries also carry
// their own TTL, so staleness stays bounded even when an invalidation is
// missed (crash between commit and invalidate, or a peer instance without
// Redis connectivity).
type Invalidator struct {
	cache CacheInterface
	redis *redis.Client // nil for single-instance deployments and tests

	// Metrics is optional; tests leave it nil.
	Metrics *metrics.MetricsRegistry

	mu   sync.Mutex
	tags map[constants.CacheTag]map[string]struct{}
}

func NewInvalidator(cache CacheInterface, redisClient *redis.Client) *Invalidator {
	return &Invalidator{
		cache: cache,
		redis: redisClient,
		tags:  map[constants.CacheTag]map[string]struct{}{},
	}
}

// GetOrSet reads through the cache, registering the key under the tag so a
// later InvalidateTags(tag) evicts it.
func (iv *Invalidator) GetOrSet(
	key string,
	tag constants.CacheTag,
	ttl time.Duration,
	loader func() (any, error),
) (interface{}, error) {
	iv.register(key, tag)
	return iv.cache.GetOrSet(key, ttl, loader)
}

// GetOrSetTyped is the typed read-through. The Redis cache backend stores
// values as JSON, so a hit can come back as a decoded-JSON shape rather than
// T; re-encode such values into T instead of discarding the hit.
func GetOrSetTyped[T any](
	iv *Invalidator,
	key string,
	tag constants.CacheTag,
	ttl time.Duration,
	loader func() (T, error),
) (T, error) {
	var zero T
	val, err := iv.GetOrSet(key, tag, ttl, func() (any, error) { return loader() })
	if err != nil {
		return zero, err
	}
	if typed, ok := val.(T); ok {
		return typed, nil
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, err
	}
	return out, nil
}

func (iv *Invalidator) register(key string, tag constants.CacheTag) {
	iv.mu.Lock()
	keys, ok := iv.tags[tag]
	if !ok {
		keys = map[string]struct{}{}
		iv.tags[tag] = keys
	}
	keys[key] = struct{}{}
	iv.mu.Unlock()

	if iv.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	setKey := tagSetPrefix + string(tag)
	if err := iv.redis.SAdd(ctx, setKey, key).Err(); err != nil {
		logging.Warn("cache tag register failed", "tag", tag, "error", err.Error())
		return
	}
	iv.redis.Expire(ctx, setKey, tagSetTTL)
}

// InvalidateTags evicts every cache key registered under the given tags,
// locally and (when Redis is configured) for every instance sharing the
// Redis-backed cache. Errors are logged, not returned: the TTL on each entry
// is the fallback bound.
func (iv *Invalidator) InvalidateTags(ctx context.Context, tags ...constants.CacheTag) {
	for _, tag := range tags {
		if iv.Metrics != nil {
			iv.Metrics.CacheInvalidations.WithLabelValues(string(tag)).Inc()
		}

		iv.mu.Lock()
		keys := iv.tags[tag]
		delete(iv.tags, tag)
		iv.mu.Unlock()

		for key := range keys {
			iv.cache.Delete(key)
		}

		if iv.redis == nil {
			continue
		}
		setKey := tagSetPrefix + string(tag)
		members, err := iv.redis.SMembers(ctx, setKey).Result()
		if err != nil {
			logging.Warn("cache tag lookup failed", "tag", tag, "error", err.Error())
			continue
		}
		for _, key := range members {
			iv.cache.Delete(key)
		}
		if err := iv.redis.Del(ctx, setKey).Err(); err != nil {
			logging.Warn("cache tag flush failed", "tag", tag, "error", err.Error())
		}
	}
}
