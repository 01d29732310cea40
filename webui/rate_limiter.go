package webui

import (
	"sync"
	"time"
)

// RateLimiter tracks failed login attempts per client IP and blocks clients
// that exceed the limit within the window. Thread-safe.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time

	maxAttempts int
	window      time.Duration
}

// Default rate limiting parameters for login attempts.
const (
	DefaultMaxAttempts   = 5
	DefaultAttemptWindow = 15 * time.Minute
)

// NewRateLimiter creates a rate limiter. Non-positive arguments fall back to
// the defaults.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultAttemptWindow
	}
	return &RateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allowed reports whether the client may attempt a login, and if not, how
// long until the oldest counted attempt ages out.
func (r *RateLimiter) Allowed(ip string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := r.prune(ip)
	if len(recent) < r.maxAttempts {
		return true, 0
	}
	retryAfter := r.window - time.Since(recent[0])
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter
}

// RecordFailure counts one failed attempt for the client.
func (r *RateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[ip] = append(r.prune(ip), time.Now())
}

// Reset clears the client's failure history, typically after a successful
// login.
func (r *RateLimiter) Reset(ip string) {
	r.mu.Lock()
	delete(r.attempts, ip)
	r.mu.Unlock()
}

// prune drops attempts older than the window. Caller must hold the lock.
func (r *RateLimiter) prune(ip string) []time.Time {
	cutoff := time.Now().Add(-r.window)
	recent := r.attempts[ip][:0]
	for _, t := range r.attempts[ip] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(r.attempts, ip)
		return nil
	}
	r.attempts[ip] = recent
	return recent
}
