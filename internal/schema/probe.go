package schema

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// DefaultProbeTTL bounds how long a capability answer is trusted. Schema
// changes are rare and administrator-triggered, so minutes of staleness is
// fine; a migration invalidates the cache explicitly anyway.
const DefaultProbeTTL = 5 * time.Minute

// Probe answers "does this column currently exist" for optional schema
// elements. It is the only component allowed to interpret column-missing
// errors; everything else branches on its boolean.
type Probe struct {
	store db.Store
	cache common.CacheInterface
	ttl   time.Duration
	group singleflight.Group

	// Metrics is optional; tests leave it nil. Only real store probes are
	// counted, not cache hits.
	Metrics *metrics.MetricsRegistry

	mu   sync.Mutex
	keys map[string]struct{}
}

func NewProbe(store db.Store, cache common.CacheInterface, ttl time.Duration) *Probe {
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	return &Probe{
		store: store,
		cache: cache,
		ttl:   ttl,
		keys:  map[string]struct{}{},
	}
}

func capabilityKey(table, column string) string {
	return string(constants.CachePrefixCapability) + table + "." + column
}

// CapabilityExists reports whether table.column exists in the deployed
// schema generation. Any probe failure that is not clearly "column missing"
// also answers false: the legacy schema is always available, so failing
// toward it keeps reads and writes working through transient errors.
func (p *Probe) CapabilityExists(ctx context.Context, table, column string) bool {
	key := capabilityKey(table, column)

	p.mu.Lock()
	p.keys[key] = struct{}{}
	p.mu.Unlock()

	val, _ := p.cache.GetOrSet(key, p.ttl, func() (any, error) {
		v, _, _ := p.group.Do(key, func() (interface{}, error) {
			return p.probe(ctx, table, column), nil
		})
		return v, nil
	})

	exists, ok := val.(bool)
	if !ok {
		return false
	}
	return exists
}

func (p *Probe) probe(ctx context.Context, table, column string) bool {
	exists := p.probeStore(ctx, table, column)
	if p.Metrics != nil {
		p.Metrics.CapabilityProbes.WithLabelValues(table, column, strconv.FormatBool(exists)).Inc()
	}
	return exists
}

func (p *Probe) probeStore(ctx context.Context, table, column string) bool {
	err := p.store.Probe(ctx, table, column)
	if err == nil {
		return true
	}
	if db.IsCapabilityAbsent(err) || strings.Contains(err.Error(), column) {
		return false
	}
	logging.Warn("capability probe failed, assuming legacy schema",
		"table", table,
		"column", column,
		"error", err.Error(),
	)
	return false
}

// Invalidate drops every memoized capability answer. Called after a
// successful migration so the next read sees the new schema immediately.
func (p *Probe) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key := range p.keys {
		p.cache.Delete(key)
	}
}
