package cache

import (
	"context"
	"testing"
	"time"
)

func TestSetGetPurge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := New(ctx, true)

	etag := c.Set("teams", []byte(`[{"id":14}]`), time.Minute)
	data, got, ok := c.Get("teams")
	if !ok || string(data) != `[{"id":14}]` || got != etag {
		t.Fatalf("Get() = %q, %q, %v", data, got, ok)
	}

	c.Purge()
	if _, _, ok := c.Get("teams"); ok {
		t.Error("Get() after Purge() should miss")
	}
}

func TestExpiry(t *testing.T) {
	c := New(context.Background(), false)
	c.enabled = true // exercise storage without the eviction goroutine
	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
	c.evict()
	if n := c.Stats()["total_keys"]; n != 0 {
		t.Errorf("total_keys after evict = %v, want 0", n)
	}
}

func TestDisabled(t *testing.T) {
	c := New(context.Background(), false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag == "" {
		t.Error("disabled cache should still compute an ETag")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{etag, true},
		{`W/"other"`, false},
	}
	for _, tt := range tests {
		if got := CheckETagMatch(tt.header, etag); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
