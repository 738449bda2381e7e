package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/routeway/gateway/internal/api"
	"github.com/routeway/gateway/internal/observe"
)

// DefaultTableTTL is how long a built table stays warm. Deliberately
// long: definitions change rarely relative to request volume, and a
// short stale window beats a store round-trip per request.
const DefaultTableTTL = 60 * time.Second

// cacheEntry pairs a table snapshot with its expiry. Entries are
// replaced whole, never updated in place.
type cacheEntry struct {
	table   *Table
	expires time.Time
}

// Cache holds the single current routing table and rebuilds it lazily
// when the TTL elapses. Reads are lock-free (atomic pointer load), so
// readers never block each other. Concurrent misses may each rebuild;
// the last writer wins, which is fine because rebuilds from an
// unchanged store produce equivalent tables.
type Cache struct {
	store   api.Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observe.Metrics

	entry atomic.Pointer[cacheEntry]
	now   func() time.Time // stubbed in tests
}

// NewCache creates a cache over the given definition store. A zero ttl
// means DefaultTableTTL. metrics may be nil.
func NewCache(store api.Store, ttl time.Duration, logger *slog.Logger, metrics *observe.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTableTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Table returns the current routing table, rebuilding it from the
// store when the cached entry is missing or expired. Store failures
// are propagated untouched and nothing is cached, so the next call
// retries.
func (c *Cache) Table(ctx context.Context) (*Table, error) {
	if e := c.entry.Load(); e != nil && c.now().Before(e.expires) {
		if c.metrics != nil {
			c.metrics.TableCacheHits.Inc()
		}
		return e.table, nil
	}

	if c.metrics != nil {
		c.metrics.TableCacheMisses.Inc()
	}

	defs, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	table := Build(defs, c.logger)
	c.entry.Store(&cacheEntry{table: table, expires: c.now().Add(c.ttl)})

	if c.metrics != nil {
		c.metrics.TableBuilds.Inc()
		c.metrics.DefinitionsLoaded.Set(float64(len(defs)))
	}
	c.logger.Debug("routing table rebuilt", "definitions", len(defs), "entries", table.Size())

	return table, nil
}

// Invalidate drops the current entry so the next Table call rebuilds.
func (c *Cache) Invalidate() {
	c.entry.Store(nil)
}
