package cache

import "sync"

// Cache is a generic thread-safe LRU cache with a fixed capacity. When
// an insert would exceed the capacity, the least recently used entry is
// evicted first.
//
// Cache must not be copied after creation (it has a mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	recency  lruList[K]
	capacity int
}

// entry pairs a cached value with its node in the recency list.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache holding at most capacity entries. A capacity of 0
// or less means unbounded.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
}

// Get retrieves a value and marks it as most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.recency.MoveToFront(e.node)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry when the
// cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key, calling create and
// caching its result on a miss. create runs under the cache lock, so
// concurrent callers never build the same artifact twice; keep it free
// of calls back into the cache.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.recency.MoveToFront(e.node)
		return e.value
	}
	value := create()
	c.set(key, value)
	return value
}

// set inserts or updates an entry. Caller holds the lock.
func (c *Cache[K, V]) set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.recency.MoveToFront(e.node)
		return
	}

	if c.capacity > 0 && len(c.entries) >= c.capacity {
		if oldest, ok := c.recency.RemoveOldest(); ok {
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = &entry[K, V]{value: value, node: c.recency.PushFront(key)}
}

// Delete removes an entry. Returns true when the entry existed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.recency.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.recency.Clear()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the configured capacity, 0 meaning unbounded.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}
