package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"docchat/internal/domain"
)

// QueryCache memoizes retrieval results per (query, topK, conversation).
// Entries carry the index generation at insert time; any corpus mutation
// bumps the generation and makes stale entries misses. Eviction is LRU.
type QueryCache struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	results   []domain.RetrievalResult
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, topK int, conversationID string) string {
	data := fmt.Sprintf("%s\x00%d\x00%s", query, topK, conversationID)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, topK int, conversationID string) ([]domain.RetrievalResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK, conversationID)
	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != c.indexGen {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return entry.results, true
}

func (c *QueryCache) Put(query string, topK int, conversationID string, results []domain.RetrievalResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK, conversationID)

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
		c.order = append(c.order, key)
	} else {
		c.moveToEnd(key)
	}

	c.entries[key] = &cacheEntry{
		results:   results,
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}
}

// Invalidate drops all entries and bumps the index generation.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
