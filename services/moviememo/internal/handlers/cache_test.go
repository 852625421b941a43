package handlers

import (
	"testing"
	"time"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("k", "v")
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected hit with %q, got %v %v", "v", v, ok)
	}
}

func TestTTLCache_ExpiredEntryMisses(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	c.Set("k", "v")

	c.mu.Lock()
	it := c.items["k"]
	it.expiresAt = time.Now().Add(-time.Second)
	c.items["k"] = it
	c.mu.Unlock()

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry should miss")
	}
	c.mu.RLock()
	_, still := c.items["k"]
	c.mu.RUnlock()
	if still {
		t.Fatal("expired entry should be evicted on read")
	}
}

func TestNoopCache_NeverHits(t *testing.T) {
	c := NewNoopCache()
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("noop cache must never hit")
	}
}
