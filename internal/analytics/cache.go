package analytics

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/gradelens/internal/grading"
)

// DefaultCacheSize bounds the number of filtered views a Cache keeps.
const DefaultCacheSize = 64

// View is a filtered dataset together with its summary.
type View struct {
	Records []grading.DerivedRecord
	Summary Summary
}

type cacheKey struct {
	fingerprint string
	filter      string
}

// Cache memoizes filtered views keyed by dataset fingerprint and filter
// state. The least recently used view is evicted once the cache is full.
// It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[cacheKey, View]

	mu     sync.Mutex
	hits   int
	misses int
}

// NewCache returns an empty cache holding up to DefaultCacheSize views.
func NewCache() *Cache {
	return NewCacheSize(DefaultCacheSize)
}

// NewCacheSize returns an empty cache holding up to size views. A size
// below one is treated as one.
func NewCacheSize(size int) *Cache {
	entries, err := lru.New[cacheKey, View](max(size, 1))
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Cache{entries: entries}
}

// View returns the filtered view of records under fs, computing it on a miss.
// fingerprint must identify records; see grading.Fingerprint.
func (c *Cache) View(fingerprint string, records []grading.DerivedRecord, fs grading.FilterState) View {
	key := cacheKey{fingerprint: fingerprint, filter: fs.Key()}

	if v, ok := c.entries.Get(key); ok {
		c.count(true)
		return v
	}
	c.count(false)

	filtered := grading.Filter(records, fs)
	v := View{Records: filtered, Summary: Summarize(filtered)}
	c.entries.Add(key, v)
	return v
}

func (c *Cache) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// Len returns the number of cached views.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached view.
func (c *Cache) Clear() {
	c.entries.Purge()
}
