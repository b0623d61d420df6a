package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) should be a miss")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive eviction")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[string](10, 10*time.Millisecond)
	c.Set("a", "x")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should be a miss")
	}

	c.Set("b", "y")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", n)
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should be gone")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len() after Purge = %d, want 0", c.Len())
	}
}
