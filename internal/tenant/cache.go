// internal/tenant/cache.go
//
// Memoising front for Resolver.
//
// Context
// -------
// Tenant resolution is on the hot path of every request, yet the
// custom_domains table changes rarely.  Cache keeps positive results in a
// sync.Map, de-duplicates concurrent cold lookups for the same host with
// singleflight, and evicts on idle TTL, max age, or LRU pressure (see
// evictor.go).
//
// Notes
// -----
//   - Only successful resolutions are cached.  ErrNotFound and backend
//     failures are returned as-is and retried on the next request, so a
//     domain verified a second ago resolves immediately.
//   - An entry older than maxAge is a miss even when it is hit
//     constantly, so an un-verified or re-pointed domain stops resolving
//     within maxAge.
//   - The singleflight leader runs detached from its caller's cancellation
//     so one aborted request does not fail every waiter; the resolver's own
//     timeout still bounds it.
package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/sitegate/internal/metrics"
)

// Static defaults.  Override via `tenant.cache_ttl`,
// `tenant.cache_max_age`, and `tenant.cache_max_entries`.
const (
	IdleTTL       = 30 * time.Minute
	MaxAge        = 5 * time.Minute
	MaxEntries    = 1000
	EvictInterval = 5 * time.Minute
)

// Lookup is the resolution capability the cache memoises.
type Lookup interface {
	Resolve(ctx context.Context, host string) (*Tenant, error)
}

// Cache lazily resolves tenants and keeps the hits.
type Cache struct {
	src        Lookup
	sfg        singleflight.Group
	m          sync.Map
	idleTTL    time.Duration
	maxAge     time.Duration
	maxEntries int
	now        func() time.Time

	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(src Lookup, idleTTL, maxAge time.Duration, maxEntries int) *Cache {
	if idleTTL <= 0 {
		idleTTL = IdleTTL
	}
	if maxAge <= 0 {
		maxAge = MaxAge
	}
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	c := &Cache{
		src:        src,
		idleTTL:    idleTTL,
		maxAge:     maxAge,
		maxEntries: maxEntries,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Resolve returns the Tenant for host, resolving it on demand.
func (c *Cache) Resolve(ctx context.Context, host string) (*Tenant, error) {
	key := Normalize(host)

	if t, ok := c.load(key); ok {
		metrics.TenantLookupTotal.WithLabelValues("hit").Inc()
		return t, nil
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if t, ok := c.load(key); ok {
			return t, nil
		}
		t, err := c.src.Resolve(context.WithoutCancel(ctx), key)
		if errors.Is(err, ErrNotFound) {
			c.drop(key, "not_found", 0)
		}
		if err != nil {
			return nil, err
		}
		now := c.now().UnixNano()
		if _, replaced := c.m.Swap(key, &entry{tenant: t, loadedAt: now, lastSeen: now}); !replaced {
			metrics.TenantCacheEntries.Inc()
		}
		zap.S().Debugw("tenant cached", "host", key, "store_id", t.StoreID, "system", t.System)
		return t, nil
	})
	switch {
	case err == nil:
		metrics.TenantLookupTotal.WithLabelValues("loaded").Inc()
		return v.(*Tenant), nil
	case errors.Is(err, ErrNotFound):
		metrics.TenantLookupTotal.WithLabelValues("not_found").Inc()
	default:
		metrics.TenantLookupTotal.WithLabelValues("error").Inc()
	}
	return nil, err
}

// Len reports the number of cached tenants.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor.  It is safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.done)
	})
}

func (c *Cache) load(key string) (*Tenant, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	now := c.now().UnixNano()
	if time.Duration(now-ent.loadedAt) > c.maxAge {
		return nil, false
	}
	atomic.StoreInt64(&ent.lastSeen, now)
	return ent.tenant, true
}
