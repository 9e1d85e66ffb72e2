// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](r rate.Limit, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize. Bounds
// memory against clients that never return.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// maxTrackedIPs caps each limiter's per-IP map before it is reset.
const maxTrackedIPs = 10000

// RateLimiter applies a per-IP request budget, expressed as a windowed
// allowance (e.g. 100 requests per 15 minutes). Tokens refill continuously
// at limit/window, with the full allowance available as burst, so a client
// that exhausts the budget recovers gradually rather than all at once.
type RateLimiter struct {
	name  string
	cache *limiterCache[string]
}

// NewRateLimiter creates a limiter allowing limit requests per window per
// client IP.
func NewRateLimiter(name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:  name,
		cache: newLimiterCache[string](rate.Every(window/time.Duration(limit)), limit),
	}
}

// Middleware returns the rate limiting middleware. Limited requests get a
// 429 JSON error.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		if !rl.cache.get(ip).Allow() {
			slog.Warn("rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
				"Rate limit exceeded. Please slow down.", nil)
			return
		}
		if rl.cache.clearIfExceeds(maxTrackedIPs) {
			slog.Warn("rate limiter cache reset", "limiter", rl.name)
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP for rate limiting. chi's RealIP
// middleware already rewrites RemoteAddr from proxy headers, so this is a
// fallback for bare deployments.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
