package pricing

import (
	"sync"
	"time"
)

// TTL policy for the two in-memory layers. Product identity moves slowly;
// prices do not.
const (
	CatalogCacheTTL    = 6 * time.Hour
	MarketDataCacheTTL = 15 * time.Minute
)

type ttlEntry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a mutex-guarded key -> (payload, timestamp) map. An entry older
// than the TTL is treated as absent and lazily evicted on lookup.
type TTLCache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]ttlEntry[V]
	now     func() time.Time
}

func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		entries: make(map[string]ttlEntry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key, treating expired entries as absent.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key with the current timestamp.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[V]{value: value, storedAt: c.now()}
}

// Len returns the number of entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
