package worldcache

import (
	"fmt"
	"testing"
)

func TestLRUEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("expected 'b' to remain with value 2")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected 'c' to remain with value 3")
	}
}

func TestLRUGetRefreshesRecency(t *testing.T) {
	c := NewLRU(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // "a" is now most-recently-used
	c.Put("c", 3) // should evict "b", not "a"

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected 'b' to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected 'a' to survive")
	}
}

func TestLRUZeroCapacityIsUnbounded(t *testing.T) {
	c := NewLRU(0)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
	}
	if c.Len() != 100 {
		t.Fatalf("expected unbounded cache to retain all 100 entries, got %d", c.Len())
	}
}

func TestLRURemove(t *testing.T) {
	c := NewLRU(4)
	c.Put("a", 1)
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to be removed")
	}
}
