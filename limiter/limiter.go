package limiter

import "time"

// Limiter is the interface that abstracts the pacing functionality.
// Reserve claims the next dispatch slot as of now and returns how long the
// caller must wait before using it; zero means dispatch immediately.
// Checking the gate and committing the slot happen in the same call, so
// two callers can never be granted the same slot.
type Limiter interface {
	Reserve(now time.Time) time.Duration
}
