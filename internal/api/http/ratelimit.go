package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/config"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// slidingWindow counts requests per key inside a rolling time window.
// Single-instance semantics only; counters are not shared across processes.
type slidingWindow struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string][]time.Time
	lastSweep time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:   limit,
		window:  window,
		entries: make(map[string][]time.Time),
	}
}

// allow records an attempt for key and reports whether it stays within the
// limit. Expired timestamps are pruned lazily on access, and at most once
// per window all idle keys are swept so the map does not grow with every
// distinct client address ever seen.
func (w *slidingWindow) allow(key string, now time.Time) bool {
	if w.limit <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	if now.Sub(w.lastSweep) >= w.window {
		w.sweep(cutoff)
		w.lastSweep = now
	}

	kept := w.entries[key][:0]
	for _, ts := range w.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= w.limit {
		w.entries[key] = kept
		return false
	}
	w.entries[key] = append(kept, now)
	return true
}

// sweep drops every key whose attempts all precede cutoff. Caller holds mu.
func (w *slidingWindow) sweep(cutoff time.Time) {
	for key, attempts := range w.entries {
		idle := true
		for _, ts := range attempts {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(w.entries, key)
		}
	}
}

// RateLimiter applies the two abuse-mitigation tiers: a loose general limit
// on everything and a strict one on authentication endpoints.
type RateLimiter struct {
	general *slidingWindow
	auth    *slidingWindow
}

// NewRateLimiter builds both tiers from config.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		general: newSlidingWindow(cfg.GeneralLimit, time.Duration(cfg.GeneralWindowSeconds)*time.Second),
		auth:    newSlidingWindow(cfg.AuthLimit, time.Duration(cfg.AuthWindowSeconds)*time.Second),
	}
}

// General limits every request by client address.
func (r *RateLimiter) General(c *fiber.Ctx) error {
	if !r.general.allow(c.IP(), time.Now()) {
		return apperrors.NewRateLimited()
	}
	return c.Next()
}

// Auth applies the strict tier; mounted on /api/auth routes on top of the
// general tier.
func (r *RateLimiter) Auth(c *fiber.Ctx) error {
	if !r.auth.allow(c.IP(), time.Now()) {
		return apperrors.NewRateLimited()
	}
	return c.Next()
}
