package cache

import (
	"testing"
	"time"
)

func TestLRUBasics(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %d ok=%v", v, ok)
	}

	// "b" is now least recently used; inserting "c" evicts it.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUInvalidate(t *testing.T) {
	c := NewLRU[string](4, time.Minute)
	c.Set("owner-1", "summary")
	c.Invalidate("owner-1")
	if _, ok := c.Get("owner-1"); ok {
		t.Fatal("expected entry to be gone after invalidation")
	}
	// Invalidating a missing key is a no-op.
	c.Invalidate("missing")
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire")
	}
}
