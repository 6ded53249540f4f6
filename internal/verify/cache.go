// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"container/list"
	"sync"
	"time"

	"github.com/pdiddy/citeverify/pkg/types"
)

// Cache holds verification results keyed by raw citation text. Entries
// expire TTL after they were written; expiry is checked on read. When the
// cache holds MaxEntries, the least recently used entry is evicted. It is
// safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	ll         *list.List
	items      map[string]*list.Element
}

type cacheEntry struct {
	key       string
	result    types.VerificationResult
	expiresAt time.Time
}

// NewCache returns a cache with the given TTL and size bound. A
// maxEntries of 0 or less leaves the cache unbounded.
func NewCache(cfg types.CacheConfig) *Cache {
	return &Cache{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        time.Now,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Get returns the unexpired result stored under key. An expired entry is
// removed.
func (c *Cache) Get(key string) (types.VerificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return types.VerificationResult{}, false
	}
	e := el.Value.(*cacheEntry)
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		return types.VerificationResult{}, false
	}
	c.ll.MoveToFront(el)
	return e.result, true
}

// Put stores result under key. Last write wins.
func (c *Cache) Put(key string, result types.VerificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*cacheEntry)
		e.result = result
		e.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, result: result, expiresAt: expiresAt})
	if c.maxEntries > 0 && c.ll.Len() > c.maxEntries {
		c.removeElement(c.ll.Back())
	}
}

// Len returns the number of entries, including expired ones not yet read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}
