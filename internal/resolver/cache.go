package resolver

import (
	"sync"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

type cacheEntry struct {
	version  time.Time
	compiled *Compiled
}

// Cache holds compiled templates keyed by template ID. An entry is
// recompiled when the template's UpdatedAt changes.
type Cache struct {
	mu    sync.RWMutex
	items map[int64]cacheEntry
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{items: make(map[int64]cacheEntry)}
}

// Get returns the compiled form of t, compiling on a miss. Templates that
// were never persisted (ID 0) are compiled without being cached.
func (c *Cache) Get(t *domain.Template) *Compiled {
	if c == nil || t.ID == 0 {
		return Compile(t.Body)
	}
	c.mu.RLock()
	e, ok := c.items[t.ID]
	c.mu.RUnlock()
	if ok && e.version.Equal(t.UpdatedAt) {
		return e.compiled
	}
	compiled := Compile(t.Body)
	c.mu.Lock()
	c.items[t.ID] = cacheEntry{version: t.UpdatedAt, compiled: compiled}
	c.mu.Unlock()
	return compiled
}

// Delete drops the entry for id.
func (c *Cache) Delete(id int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
