package limiter_test

import (
	"testing"
	"time"

	"github.com/parkerroan/throttlequeue/limiter"
)

func BenchmarkIntervalLimiter(b *testing.B) {
	l := limiter.NewInterval(time.Second)
	now := time.Now()

	for i := 0; i < b.N; i++ {
		l.Reserve(now)
	}
}

func BenchmarkWindowLimiter(b *testing.B) {
	l := limiter.NewWindow(10, time.Second)
	now := time.Now()

	for i := 0; i < b.N; i++ {
		l.Reserve(now)
	}
}

func BenchmarkTokenLimiter(b *testing.B) {
	l := limiter.NewToken(10, time.Second)
	now := time.Now()

	for i := 0; i < b.N; i++ {
		l.Reserve(now)
	}
}
