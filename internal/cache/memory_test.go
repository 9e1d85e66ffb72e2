// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if _, err := c.Get(ctx, "materials"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get on empty cache err = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "materials", []byte(`[{"id":1}]`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "materials")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Errorf("Get = %q", got)
	}

	if err := c.Delete(ctx, "materials"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "materials"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Clear err = %v, want ErrCacheMiss", err)
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	c, err := New(Config{RedisURL: "redis://127.0.0.1:1/0", DefaultTTL: time.Minute})
	if err == nil {
		t.Skip("unexpected local redis on port 1")
	}
	if c == nil {
		t.Fatal("New returned nil cache on redis failure")
	}
	defer func() { _ = c.Close() }()
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("fallback cache is %T, want *MemoryCache", c)
	}
}
