// Package cache provides a thread-safe LRU cache for compiled expressions.
//
// The cache is used by the evaluator when the WithCaching option is enabled.
// It avoids re-parsing the same expression text on every call, which pays off
// when an input stream repeats expressions.
//
// Entries are indexed by the xxhash of the whitespace-free source; the source
// itself is kept in the entry so that a hash collision is treated as a miss.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrCompile("1+2*3", compile)
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/sandrolain/gomodeval/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	hash uint64
	key  string
	expr *types.Expression
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a thread-safe LRU (Least Recently Used) cache for compiled expressions.
// Once the capacity is reached, the least recently accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[uint64]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint64]*list.Element, capacity),
	}
}

// Get retrieves a compiled expression from the cache.
// Returns (expr, true) if found and moves the entry to front (MRU).
// Returns (nil, false) if not present.
func (c *Cache) Get(key string) (*types.Expression, bool) {
	h := xxhash.Sum64String(key)

	c.mu.RLock()
	expr, el, ok := c.lookupLocked(h, key)
	// Skip the write lock when the entry is already the most recent one.
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !alreadyFront {
		// Promote under write lock; the entry may have been evicted meanwhile.
		c.mu.Lock()
		expr, el, ok = c.lookupLocked(h, key)
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()

		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}
	c.hits.Add(1)
	return expr, true
}

// lookupLocked finds the entry for key. Must be called with c.mu held.
func (c *Cache) lookupLocked(h uint64, key string) (*types.Expression, *list.Element, bool) {
	el, ok := c.items[h]
	if !ok {
		return nil, nil, false
	}
	en := el.Value.(*entry)
	if en.key != key {
		return nil, nil, false
	}
	return en.expr, el, true
}

// Set inserts or replaces an expression in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, expr *types.Expression) {
	h := xxhash.Sum64String(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[h]; ok {
		// Same key, or a colliding one: the newer entry wins.
		en := el.Value.(*entry)
		en.key = key
		en.expr = expr
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{hash: h, key: key, expr: expr})
	c.items[h] = el
}

// GetOrCompile retrieves the expression for key from cache, or calls compile()
// to create it, caches the result, and returns it.
// Errors are not cached.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns the hit, miss and eviction counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	h := xxhash.Sum64String(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[h]; ok && el.Value.(*entry).key == key {
		c.ll.Remove(el)
		delete(c.items, h)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[uint64]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).hash)
	c.evictions.Add(1)
}
