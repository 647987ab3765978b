package limiter

import (
	"sync"
	"time"
)

// Interval is an implementation of the Limiter interface that enforces a
// uniform minimum gap between dispatch slots. Unlike a token bucket it grants
// no burst credit: unused quota is not saved up, so inter-dispatch spacing
// stays even under sustained load.
type Interval struct {
	mu   sync.Mutex
	gap  time.Duration
	last time.Time // most recently committed slot
}

// NewInterval creates an Interval with the given minimum gap between slots.
// A non-positive gap grants every slot immediately.
func NewInterval(gap time.Duration) *Interval {
	return &Interval{gap: gap}
}

// PerMinute creates an Interval that spaces n dispatches evenly over a
// minute. n <= 0 yields a limiter that never delays.
func PerMinute(n int) *Interval {
	if n <= 0 {
		return &Interval{}
	}
	return &Interval{gap: time.Minute / time.Duration(n)}
}

// Reserve commits the next slot and returns how long to wait for it.
func (l *Interval) Reserve(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gap <= 0 || l.last.IsZero() {
		l.last = now
		return 0
	}

	slot := l.last.Add(l.gap)
	if !slot.After(now) {
		l.last = now
		return 0
	}

	l.last = slot
	return slot.Sub(now)
}
