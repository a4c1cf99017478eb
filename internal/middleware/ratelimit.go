package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rateLimitEntry tracks one client's hits inside the current window.
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window, per-IP in-memory limiter for the public
// form endpoints. State is per process: with multiple instances the
// effective limit is instances x limit, and it resets on restart. That is
// an accepted tradeoff for a single small deployment.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	limit   int
	window  time.Duration

	lastCleanup time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries:     make(map[string]*rateLimitEntry),
		limit:       limit,
		window:      window,
		lastCleanup: time.Now(),
	}
}

// Allow records a hit for the key and reports whether it is within the
// limit, along with the window reset time.
func (rl *RateLimiter) Allow(key string) (bool, time.Time) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Piggyback expired-entry cleanup on traffic instead of a timer.
	if now.Sub(rl.lastCleanup) > rl.window {
		for k, e := range rl.entries {
			if now.After(e.resetAt) {
				delete(rl.entries, k)
			}
		}
		rl.lastCleanup = now
	}

	e, ok := rl.entries[key]
	if !ok || now.After(e.resetAt) {
		rl.entries[key] = &rateLimitEntry{count: 1, resetAt: now.Add(rl.window)}
		return true, now.Add(rl.window)
	}

	e.count++
	return e.count <= rl.limit, e.resetAt
}

// Handler wraps an endpoint with the limiter, keying on client IP + path.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r) + "|" + r.URL.Path
		ok, resetAt := rl.Allow(key)
		if !ok {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": fmt.Sprintf("too many requests, retry in %ds", retryAfter),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the leftmost X-Forwarded-For hop, set by the proxy in
// front of the API.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
