package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedCache[T any](maxSize int, ttl time.Duration) (*LRUCache[T], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[T](maxSize, ttl)
	c.now = clock.now
	return c, clock
}

// TestLRUCacheEviction tests size-based eviction
func TestLRUCacheEviction(t *testing.T) {
	cache := NewLRUCache[string](3, time.Hour)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Set("key3", "value3")
	cache.Get("key1")           // key2 becomes least recently used
	cache.Set("key4", "value4") // Should evict key2

	if _, found := cache.Get("key2"); found {
		t.Error("key2 should have been evicted")
	}
	for _, k := range []string{"key1", "key3", "key4"} {
		if _, found := cache.Get(k); !found {
			t.Errorf("%s should still exist", k)
		}
	}
	if cache.Size() != 3 {
		t.Errorf("expected size 3, got %d", cache.Size())
	}
}

// TestLRUCacheTTLExpiration tests time-based expiration
func TestLRUCacheTTLExpiration(t *testing.T) {
	cache, clock := newClockedCache[string](100, 50*time.Millisecond)

	cache.Set("key1", "value1")
	if _, found := cache.Get("key1"); !found {
		t.Error("key1 should exist immediately")
	}

	clock.advance(60 * time.Millisecond)
	if _, found := cache.Get("key1"); found {
		t.Error("key1 should have expired")
	}

	st := cache.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Size != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestLRUCacheZeroTTLNeverExpires(t *testing.T) {
	cache, clock := newClockedCache[int](10, 0)
	cache.Set("k", 1)
	clock.advance(24 * time.Hour)
	if v, found := cache.Get("k"); !found || v != 1 {
		t.Error("entry with zero ttl should not expire")
	}
}

// TestLRUCacheCleanExpired tests the cleanup mechanism
func TestLRUCacheCleanExpired(t *testing.T) {
	cache, clock := newClockedCache[string](100, 50*time.Millisecond)

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	clock.advance(30 * time.Millisecond)
	cache.Set("key3", "value3")
	clock.advance(30 * time.Millisecond)

	if removed := cache.CleanExpired(); removed != 2 {
		t.Errorf("Expected 2 items cleaned, got %d", removed)
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("key3 should survive cleanup")
	}
}

func TestLRUCachePurge(t *testing.T) {
	cache := NewLRUCache[string](10, time.Hour)
	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Purge()
	if cache.Size() != 0 {
		t.Fatalf("expected empty cache after purge, got %d", cache.Size())
	}
	cache.Set("c", "3")
	if _, found := cache.Get("c"); !found {
		t.Fatal("cache unusable after purge")
	}
}

func TestManagerCleanNowAndStop(t *testing.T) {
	m := NewManager()
	cache, clock := newClockedCache[string](10, time.Minute)
	m.Register("records", cache)
	cache.Set("a", "1")
	clock.advance(2 * time.Minute)

	if got := m.CleanNow(); got["records"] != 1 {
		t.Fatalf("expected 1 removed, got %v", got)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

// BenchmarkLRUCache benchmarks cache performance
func BenchmarkLRUCache(b *testing.B) {
	cache := NewLRUCache[[]int](1000, time.Hour)
	value := []int{1, 2, 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%10 == 0 {
			cache.Set("bench-key", value)
		} else {
			cache.Get("bench-key")
		}
	}
}
