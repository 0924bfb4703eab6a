package document

import (
	"crypto/sha256"

	"github.com/yanizio/sitegate/internal/cache"
)

// DefaultCacheSize bounds the number of memoized bodies.
const DefaultCacheSize = 512

// Cache memoizes Renderer output keyed by the SHA-256 of the canonical
// document JSON.  Rendering is deterministic, so a hit is always the same
// bytes a fresh render would produce.
type Cache struct {
	r   *Renderer
	lru *cache.LRU[[sha256.Size]byte, string]
}

// NewCache wraps r.  size < 1 selects DefaultCacheSize.
func NewCache(r *Renderer, size int) *Cache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Cache{r: r, lru: cache.New[[sha256.Size]byte, string](size)}
}

// Render returns the cached body for doc, rendering on a miss.
func (c *Cache) Render(doc *Document) string {
	key := sha256.Sum256(doc.Canonical())
	if html, ok := c.lru.Get(key); ok {
		return html
	}
	html := c.r.Render(doc)
	c.lru.Add(key, html)
	return html
}

// RenderJSON parses raw and renders it through the cache.
func (c *Cache) RenderJSON(raw []byte) (string, error) {
	doc, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return c.Render(doc), nil
}

// Len reports the number of cached bodies.
func (c *Cache) Len() int { return c.lru.Len() }
