package limiter

import (
	"time"

	"golang.org/x/time/rate"
)

// Token is an implementation of the Limiter interface using the rate package.
// Tokens refill at size per window and up to size accumulate while idle, so
// it trades the even spacing of Interval for the ability to absorb bursts.
type Token struct {
	limiter *rate.Limiter
	size    int
	window  time.Duration
}

// NewToken constructs a Token. The size is the number of tokens the bucket
// starts with, and the window is how long a full refill takes.
func NewToken(size int, window time.Duration) *Token {
	return &Token{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(size)), size),
		size:    size,
		window:  window,
	}
}

// Reserve commits one token and returns how long to wait before using it.
func (l *Token) Reserve(now time.Time) time.Duration {
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0
	}
	return r.DelayFrom(now)
}

// LimitDetails returns the size and window of the limiter.
func (l *Token) LimitDetails() (int, time.Duration) {
	return l.size, l.window
}
