// internal/cache/lru.go
//
// Tiny LRU cache used by the document renderer to store rendered page
// bodies.  No external deps; good for a few thousand entries.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a least-recently-used cache guarded by a mutex, so one instance
// can be shared across request goroutines.
type LRU[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	ll   *list.List
	dict map[K]*list.Element
}

type pair[K comparable, V any] struct {
	key K
	val V
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
	}
}

// Get retrieves a value and marks it MRU.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair[K, V]).val, true
	}
	return val, false
}

// Add inserts or updates a value.
func (c *LRU[K, V]) Add(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair[K, V]{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair[K, V]{key, val})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair[K, V]).key)
	}
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
