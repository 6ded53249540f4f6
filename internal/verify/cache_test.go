// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"testing"
	"time"

	"github.com/pdiddy/citeverify/pkg/types"
)

func newTestCache(ttl time.Duration, max int) (*Cache, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(types.CacheConfig{TTL: ttl, MaxEntries: max})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheExpiresOnRead(t *testing.T) {
	c, now := newTestCache(time.Hour, 0)
	c.Put("a", types.VerificationResult{Score: 80})

	*now = now.Add(59 * time.Minute)
	if r, ok := c.Get("a"); !ok || r.Score != 80 {
		t.Fatalf("Get before expiry = %+v, %v", r, ok)
	}

	*now = now.Add(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire at TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on read, Len = %d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(time.Hour, 2)
	c.Put("a", types.VerificationResult{Score: 1})
	c.Put("b", types.VerificationResult{Score: 2})
	c.Get("a")
	c.Put("c", types.VerificationResult{Score: 3})

	if _, ok := c.Get("b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCachePutOverwrites(t *testing.T) {
	c, now := newTestCache(time.Hour, 0)
	c.Put("a", types.VerificationResult{Score: 1})
	*now = now.Add(30 * time.Minute)
	c.Put("a", types.VerificationResult{Score: 2})
	*now = now.Add(45 * time.Minute)

	r, ok := c.Get("a")
	if !ok || r.Score != 2 {
		t.Errorf("Get = %+v, %v; want the second write with a refreshed TTL", r, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
