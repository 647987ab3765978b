/*
Package throttlequeue serializes asynchronous work into an evenly spaced
dispatch stream, so a process can respect an external rate limit such as an
API quota.

Callers submit a function plus arguments and get back a Result that settles
with the function's own outcome. Dispatch order is strict submission order
(FIFO); tasks run concurrently once dispatched, so settlement order may
interleave when task latencies vary.

Example:

	import (
		"context"
		"github.com/parkerroan/throttlequeue"
	)

	// At most 60 dispatches per minute, one every second.
	q := throttlequeue.New(60, "github-api")

	res := q.Submit(ctx, func(ctx context.Context, args ...any) (any, error) {
		return fetchRepo(ctx, args[0].(string))
	}, "parkerroan/throttlequeue")

	repo, err := res.Value()

The queue uses a limiter to pace dispatches. The default spaces dispatches
evenly with no burst credit, which keeps the gap between any two consecutive
dispatches at or above the configured minimum.

The limiter package provides 3 limiters and each can be injected with
WithLimiter if even spacing is not what you need:
  - Interval: uniform minimum gap, the default
  - Window: up to N dispatches per sliding window, bursts allowed
  - Token: token bucket backed by golang.org/x/time/rate
*/
package throttlequeue
