package limiter

import (
	"container/ring"
	"sync"
	"time"
)

// Window is an implementation of the Limiter interface using a ring buffer
// of committed slot times. Up to size slots are granted per window, so short
// bursts go through immediately; once the ring is full each new slot waits
// for the oldest one to leave the window.
type Window struct {
	mu     sync.Mutex
	ring   *ring.Ring
	window time.Duration
}

// NewWindow creates a Window allowing size dispatches per window duration.
// size < 1 is treated as 1.
func NewWindow(size int, window time.Duration) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		ring:   ring.New(size),
		window: window,
	}
}

// Reserve commits the next slot and returns how long to wait for it.
func (l *Window) Reserve(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	// The current ring position holds the oldest committed slot, if any.
	slot := now
	if v := l.ring.Value; v != nil {
		if oldest := v.(time.Time); now.Sub(oldest) < l.window {
			slot = oldest.Add(l.window)
		}
	}

	l.ring.Value = slot
	l.ring = l.ring.Next()

	if slot.After(now) {
		return slot.Sub(now)
	}
	return 0
}
