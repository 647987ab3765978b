package limiter_test

import (
	"testing"
	"time"

	"github.com/parkerroan/throttlequeue/limiter"
	"github.com/stretchr/testify/assert"
)

func TestIntervalReserve(t *testing.T) {
	l := limiter.NewInterval(100 * time.Millisecond)
	base := time.Now()

	// First slot is granted immediately.
	assert.Equal(t, time.Duration(0), l.Reserve(base))

	// Back-to-back reservations are pushed out one gap at a time.
	assert.Equal(t, 100*time.Millisecond, l.Reserve(base))
	assert.Equal(t, 200*time.Millisecond, l.Reserve(base))

	// Once the last committed slot is in the past, no wait is required.
	assert.Equal(t, time.Duration(0), l.Reserve(base.Add(time.Second)))
}

func TestIntervalReserveAfterPartialWait(t *testing.T) {
	l := limiter.NewInterval(time.Second)
	base := time.Now()

	l.Reserve(base)

	// 400ms into the gap, 600ms remain.
	assert.Equal(t, 600*time.Millisecond, l.Reserve(base.Add(400*time.Millisecond)))
}

func TestPerMinute(t *testing.T) {
	l := limiter.PerMinute(60)
	base := time.Now()

	assert.Equal(t, time.Duration(0), l.Reserve(base))
	assert.Equal(t, time.Second, l.Reserve(base))
}

func TestPerMinuteUnlimited(t *testing.T) {
	l := limiter.PerMinute(0)
	base := time.Now()

	for i := 0; i < 10; i++ {
		assert.Equal(t, time.Duration(0), l.Reserve(base))
	}
}
