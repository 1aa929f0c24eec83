package query

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultCacheCapacity is the entry limit a ParseCache falls back to when
// constructed with a non-positive capacity.
const DefaultCacheCapacity = 256

type cacheEntry struct {
	query string
	expr  FilterExpression
}

// ParseCache memoizes parsed filter expressions keyed by the xxhash of the
// query string. Entries store the original query so a hash collision reads
// as a miss instead of returning the wrong filter.
//
// When the cache is full an insert flushes it entirely. Query workloads
// cluster on a small set of hot strings that immediately repopulate, and
// the full flush keeps Get on the read-lock fast path with no bookkeeping.
type ParseCache struct {
	mu    sync.RWMutex
	items map[uint64]cacheEntry
	max   int
}

// NewParseCache creates a cache holding up to capacity entries. A capacity
// of zero or less selects DefaultCacheCapacity.
func NewParseCache(capacity int) *ParseCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ParseCache{
		items: make(map[uint64]cacheEntry),
		max:   capacity,
	}
}

// Get returns a deep copy of the cached expression for query, or false when
// absent. Copies keep consumers from mutating each other's trees through
// the shared cache.
func (c *ParseCache) Get(query string) (FilterExpression, bool) {
	key := xxhash.Sum64String(query)

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || entry.query != query {
		return nil, false
	}
	return Clone(entry.expr), true
}

// Put stores a deep copy of expr for query.
func (c *ParseCache) Put(query string, expr FilterExpression) {
	key := xxhash.Sum64String(query)
	entry := cacheEntry{query: query, expr: Clone(expr)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.max {
		if _, ok := c.items[key]; !ok {
			c.items = make(map[uint64]cacheEntry)
		}
	}
	c.items[key] = entry
}

// Len returns the number of cached entries.
func (c *ParseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
