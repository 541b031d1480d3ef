package systems

import (
	"fmt"

	"github.com/zyedidia/generic/cache"

	"cave-rogue/components"
	"cave-rogue/config"
)

// pathKey identifies a cached query
type pathKey struct {
	From, To components.Point
}

// PathCache memoizes the first step of a path between two tiles.
// Implementations never hold more than Capacity entries; a capacity of zero
// disables caching.
type PathCache interface {
	Get(from, to components.Point) (components.Point, bool)
	Put(from, to, step components.Point)
	Clear()
	Len() int
	Capacity() int
}

// NewPathCache builds the cache selected by policy. An empty policy picks
// the clear-on-full cache.
func NewPathCache(policy string, capacity int) (PathCache, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: cache capacity %d is negative", config.ErrInvalidConfiguration, capacity)
	}
	switch policy {
	case "", config.CachePolicyClear:
		return NewClearOnFullCache(capacity), nil
	case config.CachePolicyLRU:
		return NewLRUPathCache(capacity), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache policy %q", config.ErrInvalidConfiguration, policy)
	}
}

// ClearOnFullCache drops every entry when a new key would not fit.
// Existing keys are overwritten in place without clearing.
type ClearOnFullCache struct {
	entries  map[pathKey]components.Point
	capacity int
}

// NewClearOnFullCache creates an empty cache holding at most capacity entries
func NewClearOnFullCache(capacity int) *ClearOnFullCache {
	return &ClearOnFullCache{
		entries:  make(map[pathKey]components.Point),
		capacity: max(capacity, 0),
	}
}

func (c *ClearOnFullCache) Get(from, to components.Point) (components.Point, bool) {
	step, ok := c.entries[pathKey{From: from, To: to}]
	return step, ok
}

func (c *ClearOnFullCache) Put(from, to, step components.Point) {
	if c.capacity == 0 {
		return
	}
	k := pathKey{From: from, To: to}
	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.capacity {
		clear(c.entries)
	}
	c.entries[k] = step
}

func (c *ClearOnFullCache) Clear() {
	clear(c.entries)
}

func (c *ClearOnFullCache) Len() int {
	return len(c.entries)
}

func (c *ClearOnFullCache) Capacity() int {
	return c.capacity
}

// LRUPathCache evicts the least recently used entry when full
type LRUPathCache struct {
	lru      *cache.Cache[pathKey, components.Point]
	capacity int
}

// NewLRUPathCache creates an empty LRU cache holding at most capacity entries
func NewLRUPathCache(capacity int) *LRUPathCache {
	c := &LRUPathCache{capacity: max(capacity, 0)}
	c.Clear()
	return c
}

func (c *LRUPathCache) Get(from, to components.Point) (components.Point, bool) {
	if c.capacity == 0 {
		return components.Point{}, false
	}
	return c.lru.Get(pathKey{From: from, To: to})
}

func (c *LRUPathCache) Put(from, to, step components.Point) {
	if c.capacity == 0 {
		return
	}
	c.lru.Put(pathKey{From: from, To: to}, step)
}

func (c *LRUPathCache) Clear() {
	c.lru = cache.New[pathKey, components.Point](max(c.capacity, 1))
}

func (c *LRUPathCache) Len() int {
	if c.capacity == 0 {
		return 0
	}
	return c.lru.Size()
}

func (c *LRUPathCache) Capacity() int {
	return c.capacity
}
