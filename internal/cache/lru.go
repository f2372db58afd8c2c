package cache

import (
	"container/list"
	"strings"
	"sync"
)

// Stats represents cache performance metrics
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	HitRate   float64 `json:"hit_rate"`
}

type entry[V any] struct {
	key   string
	value V
}

// LRU is a size-bounded cache that evicts the least recently used key
type LRU[V any] struct {
	maxSize      int
	items        map[string]*list.Element
	evictionList *list.List
	stats        Stats
	mu           sync.Mutex
}

// NewLRU creates a cache holding at most maxSize entries
func NewLRU[V any](maxSize int) *LRU[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[V]{
		maxSize:      maxSize,
		items:        make(map[string]*list.Element),
		evictionList: list.New(),
		stats:        Stats{MaxSize: maxSize},
	}
}

// Get retrieves an item and marks it most recently used
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if !exists {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.evictionList.MoveToFront(element)
	c.stats.Hits++
	return element.Value.(*entry[V]).value, true
}

// Set stores an item, evicting the oldest one when full
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		element.Value.(*entry[V]).value = value
		c.evictionList.MoveToFront(element)
		return
	}

	c.items[key] = c.evictionList.PushFront(&entry[V]{key: key, value: value})
	if c.evictionList.Len() > c.maxSize {
		c.evictOldestUnsafe()
	}
}

// Delete removes an item
func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		c.removeElementUnsafe(element)
	}
}

// Clear removes all items with a specific prefix
func (c *LRU[V]) Clear(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, element := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElementUnsafe(element)
		}
	}
}

// Stats returns cache statistics
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.items)
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// removeElementUnsafe removes an element from cache (caller must hold lock)
func (c *LRU[V]) removeElementUnsafe(element *list.Element) {
	delete(c.items, element.Value.(*entry[V]).key)
	c.evictionList.Remove(element)
}

// evictOldestUnsafe evicts the oldest entry (caller must hold lock)
func (c *LRU[V]) evictOldestUnsafe() {
	if oldest := c.evictionList.Back(); oldest != nil {
		c.removeElementUnsafe(oldest)
		c.stats.Evictions++
	}
}
