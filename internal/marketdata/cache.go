package marketdata

import (
	"context"
	"sync"
	"time"

	"finance-assistant/internal/interfaces"
	"finance-assistant/internal/logger"
	"finance-assistant/internal/types"
)

// CachedHistory wraps a HistoryProvider with a read-through TTL cache,
// keyed by symbol and range. Errors are never cached.
type CachedHistory struct {
	inner interfaces.HistoryProvider
	cache *historyCache
}

func NewCachedHistory(inner interfaces.HistoryProvider, ttl time.Duration) *CachedHistory {
	return &CachedHistory{
		inner: inner,
		cache: newHistoryCache(ttl),
	}
}

func (c *CachedHistory) History(ctx context.Context, symbol, rng string) ([]types.Bar, error) {
	key := symbol + "|" + rng
	if bars, ok := c.cache.get(key); ok {
		logger.Debug(ctx, "History cache hit", "symbol", symbol, "range", rng)
		return bars, nil
	}

	bars, err := c.inner.History(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	c.cache.set(key, bars)
	return bars, nil
}

// historyCache stores bar slices temporarily
type historyCache struct {
	mu   sync.RWMutex
	data map[string]*historyEntry
	ttl  time.Duration
}

type historyEntry struct {
	bars      []types.Bar
	timestamp time.Time
}

func newHistoryCache(ttl time.Duration) *historyCache {
	cache := &historyCache{
		data: make(map[string]*historyEntry),
		ttl:  ttl,
	}

	// Start cleanup goroutine
	go cache.cleanupLoop()

	return cache
}

func (c *historyCache) get(key string) ([]types.Bar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.bars, true
}

func (c *historyCache) set(key string, bars []types.Bar) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &historyEntry{
		bars:      bars,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *historyCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *historyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
