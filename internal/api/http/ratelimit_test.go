package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/clinic-service/internal/config"
)

func TestSlidingWindowAllowsUpToLimit(t *testing.T) {
	w := newSlidingWindow(3, time.Minute)
	now := time.Now()

	assert.True(t, w.allow("1.2.3.4", now))
	assert.True(t, w.allow("1.2.3.4", now))
	assert.True(t, w.allow("1.2.3.4", now))
	assert.False(t, w.allow("1.2.3.4", now))

	// another key has its own budget
	assert.True(t, w.allow("5.6.7.8", now))
}

func TestSlidingWindowSlidesForward(t *testing.T) {
	w := newSlidingWindow(2, time.Minute)
	base := time.Now()

	assert.True(t, w.allow("k", base))
	assert.True(t, w.allow("k", base.Add(30*time.Second)))
	assert.False(t, w.allow("k", base.Add(45*time.Second)))

	// the first hit ages out, freeing one slot but not both
	assert.True(t, w.allow("k", base.Add(61*time.Second)))
	assert.False(t, w.allow("k", base.Add(62*time.Second)))
}

func TestSlidingWindowSweepsIdleKeys(t *testing.T) {
	w := newSlidingWindow(5, time.Minute)
	base := time.Now()

	for i := 0; i < 50; i++ {
		assert.True(t, w.allow(fmt.Sprintf("10.0.0.%d", i), base))
	}
	assert.Len(t, w.entries, 50)

	// one client comes back after the window; the other 49 get dropped
	assert.True(t, w.allow("10.0.0.0", base.Add(2*time.Minute)))
	assert.Len(t, w.entries, 1)
}

func TestSlidingWindowZeroLimitDisables(t *testing.T) {
	w := newSlidingWindow(0, time.Minute)
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.True(t, w.allow("k", now))
	}
}

func TestStrictTierTripsBeforeGeneralTier(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{
		GeneralLimit:         300,
		GeneralWindowSeconds: 60,
		AuthLimit:            10,
		AuthWindowSeconds:    900,
	})
	now := time.Now()

	authDenied := 0
	for i := 0; i < 20; i++ {
		if !limiter.auth.allow("1.2.3.4", now) {
			authDenied++
		}
		assert.True(t, limiter.general.allow("1.2.3.4", now))
	}
	assert.Equal(t, 10, authDenied)
}
