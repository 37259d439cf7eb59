package symbol

import "sync"

// Loader fetches a template from its backing source.
type Loader func(id string) (*Template, error)

// Cache memoises loaded templates. Successful loads stay cached until
// Invalidate or Reset; failed loads are never cached, so a template added
// later becomes visible on the next lookup. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	load    Loader
	entries map[string]*Template
}

// NewCache creates an empty cache in front of load.
func NewCache(load Loader) *Cache {
	return &Cache{
		load:    load,
		entries: make(map[string]*Template),
	}
}

// Template returns the cached template or loads it.
func (c *Cache) Template(id string) (*Template, error) {
	c.mu.RLock()
	t, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := c.load(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have won the race; keep the first entry.
	if existing, ok := c.entries[id]; ok {
		return existing, nil
	}
	c.entries[id] = t
	return t, nil
}

// Invalidate drops one entry.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*Template)
	c.mu.Unlock()
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
