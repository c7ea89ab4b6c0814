package geometry

import (
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

type cacheKey struct {
	transform models.Transform
	container models.Size
	design    models.Size
}

// Cache memoizes ComputeRect results. ComputeRect is pure, so the key is
// exactly (transform, containerSize, designSize) and entries never go stale;
// a resize simply starts populating new keys.
type Cache struct {
	mu    sync.RWMutex
	rects map[cacheKey]Rect
}

// NewCache creates an empty geometry cache.
func NewCache() *Cache {
	return &Cache{rects: make(map[cacheKey]Rect)}
}

// Rect returns the cached render rectangle for the key, computing and
// storing it on first use.
func (c *Cache) Rect(t models.Transform, container, design models.Size) Rect {
	key := cacheKey{transform: t, container: container, design: design}

	c.mu.RLock()
	r, ok := c.rects[key]
	c.mu.RUnlock()
	if ok {
		return r
	}

	r = ComputeRect(t, design)
	c.mu.Lock()
	c.rects[key] = r
	c.mu.Unlock()
	return r
}

// Len reports the number of cached rectangles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rects)
}
