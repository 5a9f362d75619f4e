package cache

import (
	"sync"
	"time"
)

// Item represents a cache item with value and expiration time
type Item struct {
	Value      any
	Expiration int64
	LastAccess time.Time
}

// IsExpired returns true if the item has expired
func (item Item) IsExpired() bool {
	if item.Expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > item.Expiration
}

// Cache is an in-memory cache with TTL-based expiry and LRU eviction once
// maxItems is reached.
type Cache struct {
	items           map[string]Item
	mu              sync.RWMutex
	cleanupInterval time.Duration
	maxItems        int
	stopCleanup     chan struct{}
	stats           Stats
}

type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

type Options struct {
	CleanupInterval time.Duration
	MaxItems        int
}

func DefaultOptions() Options {
	return Options{
		CleanupInterval: 5 * time.Minute,
		MaxItems:        0, // No limit
	}
}

func NewCache(options Options) *Cache {
	cache := &Cache{
		items:           make(map[string]Item),
		cleanupInterval: options.CleanupInterval,
		maxItems:        options.MaxItems,
		stopCleanup:     make(chan struct{}),
	}

	go cache.startCleanupTimer()

	return cache
}

func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// evict removes the least recently used item. Caller holds the lock.
func (c *Cache) evict() {
	var keyToEvict string
	var oldestTime time.Time

	for k, item := range c.items {
		if keyToEvict == "" || item.LastAccess.Before(oldestTime) {
			keyToEvict = k
			oldestTime = item.LastAccess
		}
	}

	if keyToEvict != "" {
		delete(c.items, keyToEvict)
		c.stats.Evictions++
	}
}

func (c *Cache) Set(key string, value any, expiration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	if c.maxItems > 0 && len(c.items) >= c.maxItems && !exists {
		c.evict()
	}

	var exp int64
	if expiration > 0 {
		exp = time.Now().Add(expiration).UnixNano()
	}

	c.items[key] = Item{
		Value:      value,
		Expiration: exp,
		LastAccess: time.Now(),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.stats.Misses++
		return nil, false
	}

	if item.IsExpired() {
		delete(c.items, key)
		c.stats.Misses++
		return nil, false
	}

	item.LastAccess = time.Now()
	c.items[key] = item

	c.stats.Hits++

	return item.Value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item)
	c.stats = Stats{}
}

// Close stops the cleanup goroutine
func (c *Cache) Close() {
	close(c.stopCleanup)
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stats
}
