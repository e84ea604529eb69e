package pricing

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SpotCache is a process-local, time-bounded cache for live prices.
// Entries are never deleted; a stale entry is simply ignored at read time
// and overwritten by the next successful fetch (lazy expiry, no sweeper).
type SpotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]spotEntry
	now     func() time.Time
}

type spotEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// NewSpotCache creates a new in-memory price cache with the given TTL
func NewSpotCache(ttl time.Duration) *SpotCache {
	return &SpotCache{
		ttl:     ttl,
		entries: make(map[string]spotEntry),
		now:     time.Now,
	}
}

// Get returns the cached price for key, and whether a fresh entry exists.
// An entry fetched at time T is valid for reads strictly before T+TTL.
func (c *SpotCache) Get(key string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return decimal.Zero, false
	}
	return entry.price, true
}

// Set stores a price for key, stamped with the current time
func (c *SpotCache) Set(key string, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = spotEntry{price: price, fetchedAt: c.now()}
}
