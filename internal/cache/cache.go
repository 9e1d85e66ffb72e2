// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the catalog response cache, with in-memory and
// Redis backends behind one interface.
package cache

import (
	"context"
	"time"
)

// Cache is the backend interface. All implementations must be safe for
// concurrent use. Values are []byte so memory and Redis backends behave
// identically.
type Cache interface {
	// Get retrieves a value. Returns ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. TTL 0 uses the default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"
)

// Config selects and tunes the backend.
type Config struct {
	// RedisURL selects the Redis backend when non-empty
	// (e.g. redis://localhost:6379/0).
	RedisURL string

	// Prefix namespaces keys in a shared Redis.
	Prefix string

	// DefaultTTL applies when Set is called with ttl 0.
	DefaultTTL time.Duration
}

// New creates a cache for the config. A Redis connection failure falls back
// to the in-memory backend so a missing Redis never blocks startup.
func New(cfg Config) (Cache, error) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return c, nil
		}
		return NewMemoryCache(cfg.DefaultTTL), err
	}
	return NewMemoryCache(cfg.DefaultTTL), nil
}
