package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	clock := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 5)
	rl.now = func() time.Time { return clock }

	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		rl.GetLimiter(ip)
	}
	assert.Equal(t, 3, rl.Len())

	clock = clock.Add(time.Minute)
	first := rl.GetLimiter("203.0.113.1")
	assert.Equal(t, 3, rl.Len(), "nothing is idle long enough yet")

	clock = clock.Add(idleTTL)
	assert.Same(t, first, rl.GetLimiter("203.0.113.1"))
	assert.Equal(t, 1, rl.Len(), "only the recently seen IP survives")
}
