// Package assets loads mesh files, compiles them and keeps the results under
// unique names for the renderer.
package assets

import (
	"sync"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Cache holds parsed mesh data by file path so one file registered under
// several names is parsed once. Reloads invalidate the entry.
type Cache struct {
	data map[string]*mesh.Data
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*mesh.Data),
	}
}

// Get returns the parsed data for path.
func (c *Cache) Get(path string) (*mesh.Data, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.data[path]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return d, ok
}

// Set stores parsed data for path.
func (c *Cache) Set(path string, d *mesh.Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = d
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, path)
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*mesh.Data)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
