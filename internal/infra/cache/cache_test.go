package cache_test

import (
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/infra/cache"

	"go.uber.org/goleak"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_NoExpiry(t *testing.T) {
	c := cache.New[[]byte](0)
	defer c.Close()

	c.Set("authToken", []byte("abc"))
	time.Sleep(20 * time.Millisecond)

	val, ok := c.Get("authToken")
	if !ok || string(val) != "abc" {
		t.Fatalf("expected persistent entry, got %q (ok=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_CloseStopsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := cache.New[string](10 * time.Millisecond)
	c.Set("k", "v")
	c.Close()
	c.Close()
}
