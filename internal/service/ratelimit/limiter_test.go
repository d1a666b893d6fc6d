package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesAndRefills(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return now }))
	p := Policy{Capacity: 2, RefillPerSec: 1}

	assert.True(t, l.Allow("ip", p))
	assert.True(t, l.Allow("ip", p))
	assert.False(t, l.Allow("ip", p))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("ip", p))
	assert.False(t, l.Allow("ip", p))

	now = now.Add(time.Hour)
	assert.True(t, l.Allow("ip", p))
	assert.True(t, l.Allow("ip", p))
	assert.False(t, l.Allow("ip", p), "refill capped at capacity")
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	p := Policy{Capacity: 1, RefillPerSec: 0}

	assert.True(t, l.Allow("a", p))
	assert.False(t, l.Allow("a", p))
	assert.True(t, l.Allow("b", p))
}

func TestIdleBucketsAreSwept(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return now }), WithIdleTTL(time.Minute))
	p := Policy{Capacity: 1, RefillPerSec: 1}

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("k%d", i), p)
	}
	assert.Equal(t, 100, l.Len())

	now = now.Add(2 * time.Minute)
	for i := 0; i < 156; i++ {
		l.Allow("hot", p)
	}
	assert.Equal(t, 1, l.Len())
}
