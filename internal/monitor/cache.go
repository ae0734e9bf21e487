package monitor

import (
	"sync"
	"time"

	"github.com/mcpmon/mcpmon/internal/domain"
)

// DefaultFreshnessWindow is the span during which a cached health verdict is
// reused instead of re-probed.
const DefaultFreshnessWindow = 30 * time.Second

// CacheEntry is a memoized health verdict for one managed server.
type CacheEntry struct {
	State      domain.HealthState
	ObservedAt time.Time
}

// Cache memoizes per-server health verdicts inside a freshness window.
// Not a general LRU: one entry per server name, overwritten on every real
// probe. Stale entries are ignored on read, not swept; growth is bounded by
// the fixed set of configured servers.
// NewCache should be used to create instances of Cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	window  time.Duration
}

// NewCache creates a verdict cache with the given freshness window.
func NewCache(window time.Duration) *Cache {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}

	return &Cache{
		entries: make(map[string]CacheEntry),
		window:  window,
	}
}

// Get returns the entry for name if one exists and is still fresh at now.
func (c *Cache) Get(name string, now time.Time) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok {
		return CacheEntry{}, false
	}

	if now.Sub(entry.ObservedAt) >= c.window {
		return CacheEntry{}, false
	}

	return entry, true
}

// Put records a verdict observed at now, overwriting any previous entry.
func (c *Cache) Put(name string, state domain.HealthState, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[name] = CacheEntry{State: state, ObservedAt: now}
}

// Invalidate removes the entry for name, guaranteeing the next probe is real.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, name)
}
