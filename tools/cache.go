package tools

import "sync"

// Cache memoizes serialized tool results keyed by tool name plus
// canonical argument JSON. Entries never expire; the catalog is static
// for the life of the process.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
