// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - tenants idle longer than idleTTL
//   - tenants resolved longer ago than maxAge
//   - least-recently-used tenants when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/metrics"
)

func (c *Cache) evictLoop() {
	for {
		select {
		case <-c.done:
			return
		case now := <-c.evictTicker.C:
			c.evict(now)
		}
	}
}

// evict runs one idle pass and one LRU pass.  It returns the number of
// entries removed.
func (c *Cache) evict(at time.Time) int {
	now := at.UnixNano()
	var count, removed int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			c.drop(key, "idle", idle.Truncate(time.Second))
			removed++
			return true
		}
		if age := time.Duration(now - ent.loadedAt); age > c.maxAge {
			c.drop(key, "max_age", idle.Truncate(time.Second))
			removed++
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.maxEntries > 0 && count > c.maxEntries {
		type kv struct {
			key string
			at  int64
		}
		all := make([]kv, 0, count)
		c.m.Range(func(key, value any) bool {
			all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&value.(*entry).lastSeen)})
			return true
		})
		sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
		for i := 0; i < len(all)-c.maxEntries; i++ {
			if _, ok := c.m.Load(all[i].key); ok {
				c.drop(all[i].key, "lru", 0)
				removed++
			}
		}
	}
	return removed
}

func (c *Cache) drop(key any, reason string, idle time.Duration) {
	if _, loaded := c.m.LoadAndDelete(key); !loaded {
		return
	}
	zap.S().Infow("tenant evicted", "host", key, "reason", reason, "idle", idle)
	metrics.TenantEvictTotal.Inc()
	metrics.TenantCacheEntries.Dec()
}
