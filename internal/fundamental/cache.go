package fundamental

import (
	"container/list"
	"sync"
)

// CacheKey identifies one memoized lookup. Keys carry the exact query
// time: bucketing into ranges risks serving a stale value across a
// filing boundary, and a sequential backtest repeats the same
// timestamp many times anyway.
type CacheKey struct {
	Security SecurityID
	Field    FieldID
	At       int64 // query time, UnixNano
}

type cacheItem struct {
	key CacheKey
	val Value
	ok  bool
}

// Cache memoizes resolver results with a bounded LRU policy. Entries
// are derived and disposable: eviction never changes observable
// results. The mutex guards short critical sections only; the compute
// function runs unlocked, so two racing callers may both compute, but
// the first inserted result wins and both observe consistent values.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ll         *list.List
	items      map[CacheKey]*list.Element
	hits       uint64
	misses     uint64
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"max_entries"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
}

// NewCache creates an LRU cache bounded to maxEntries
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[CacheKey]*list.Element),
	}
}

// GetOrCompute returns the memoized result for key, calling fn on a
// miss. Absent results (ok == false) are cached: absence at a fixed
// query time is as deterministic as presence. Errors from fn are
// returned to the caller and never cached, so a failed computation is
// retried on the next call.
func (c *Cache) GetOrCompute(key CacheKey, fn func() (Value, bool, error)) (Value, bool, error) {
	c.mu.Lock()
	if el, found := c.items[key]; found {
		c.ll.MoveToFront(el)
		item := el.Value.(*cacheItem)
		c.hits++
		c.mu.Unlock()
		return item.val, item.ok, nil
	}
	c.misses++
	c.mu.Unlock()

	val, ok, err := fn()
	if err != nil {
		return Value{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A racing caller may have inserted while we computed; keep the
	// existing entry so all callers observe one result.
	if el, found := c.items[key]; found {
		c.ll.MoveToFront(el)
		item := el.Value.(*cacheItem)
		return item.val, item.ok, nil
	}

	el := c.ll.PushFront(&cacheItem{key: key, val: val, ok: ok})
	c.items[key] = el

	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheItem).key)
		}
	}

	return val, ok, nil
}

// Len returns the current number of entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops all entries. Observable results are unchanged; only
// subsequent hit rates suffer.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[CacheKey]*list.Element)
}

// Stats returns hit/miss counters
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:    c.ll.Len(),
		MaxEntries: c.maxEntries,
		Hits:       c.hits,
		Misses:     c.misses,
	}
}
