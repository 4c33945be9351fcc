package common

import "time"

// CacheInterface is what the catalog's read caches are written against: the
// product/vehicle/category list handlers, the compatibility reader, and the
// schema capability probe all cache through it. Two implementations exist,
// the in-process go-cache service and a Redis-backed one for multi-instance
// deployments; the tag invalidator layers eviction bookkeeping on top of
// either.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)

	// Get reports (value, true) on a hit. Note the Redis implementation
	// round-trips values through JSON, so struct values come back as
	// decoded-JSON shapes rather than the original concrete type.
	Get(key string) (interface{}, bool)

	Delete(key string)

	// GetOrSet returns the cached value or runs loader and caches its
	// result. A loader error is returned without caching anything.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connection; the in-process cache
	// treats it as a no-op.
	Close() error
}
