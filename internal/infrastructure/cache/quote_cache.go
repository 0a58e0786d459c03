package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
)

// CacheEntry is a cached single-day quote with the time it was stored
type CacheEntry struct {
	Quote    entity.QuotePoint
	StoredAt time.Time
}

// QuoteCache is an in-memory, thread-safe cache of single-day lookups.
// Entries live only for the life of the process.
type QuoteCache struct {
	entries    map[string]CacheEntry
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewQuoteCache creates a cache whose entries expire after ttl; a non-positive ttl disables it
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		entries:    make(map[string]CacheEntry),
		expiration: ttl,
		now:        time.Now,
	}
}

func cacheKey(currency string, day time.Time) string {
	return strings.ToUpper(currency) + ":" + day.Format(entity.APIDateLayout)
}

// Get returns the quote stored for currency on day, if present and fresh
func (c *QuoteCache) Get(currency string, day time.Time) (entity.QuotePoint, bool) {
	if c == nil || c.expiration <= 0 {
		return entity.QuotePoint{}, false
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[cacheKey(currency, day)]
	if !ok || c.now().Sub(entry.StoredAt) > c.expiration {
		return entity.QuotePoint{}, false
	}

	return entry.Quote, true
}

// Put stores the quote found for currency on day
func (c *QuoteCache) Put(currency string, day time.Time, quote entity.QuotePoint) {
	if c == nil || c.expiration <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[cacheKey(currency, day)] = CacheEntry{
		Quote:    quote,
		StoredAt: c.now(),
	}
}

// Size returns the number of entries, expired ones included
func (c *QuoteCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// CleanExpired drops expired entries and returns how many were removed
func (c *QuoteCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.StoredAt) > c.expiration {
			delete(c.entries, key)
			count++
		}
	}

	return count
}

// Clear removes every entry
func (c *QuoteCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
}
