package notes

import "testing"

func TestLRUCacheEvictsOldest(t *testing.T) {
	cache := newLRUCache(2)
	cache.put("a", "1")
	cache.put("b", "2")

	// Touching "a" makes "b" the eviction candidate.
	if _, ok := cache.get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	cache.put("c", "3")

	if _, ok := cache.get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if got, ok := cache.get("a"); !ok || got != "1" {
		t.Fatalf("a = %q (cached=%v), want 1", got, ok)
	}
	if got, ok := cache.get("c"); !ok || got != "3" {
		t.Fatalf("c = %q (cached=%v), want 3", got, ok)
	}
	if cache.len() != 2 {
		t.Fatalf("len = %d, want 2", cache.len())
	}
}

func TestLRUCacheUpdatesExistingKey(t *testing.T) {
	cache := newLRUCache(2)
	cache.put("a", "1")
	cache.put("a", "updated")

	if got, ok := cache.get("a"); !ok || got != "updated" {
		t.Fatalf("a = %q (cached=%v), want updated", got, ok)
	}
	if cache.len() != 1 {
		t.Fatalf("len = %d, want 1", cache.len())
	}
}

func TestLRUCacheZeroCapacityDisabled(t *testing.T) {
	cache := newLRUCache(0)
	cache.put("a", "1")
	if _, ok := cache.get("a"); ok {
		t.Fatal("disabled cache must not store entries")
	}
}
