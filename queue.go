package throttlequeue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parkerroan/throttlequeue/limiter"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/semaphore"
)

// TaskFunc is the unit of work submitted to a Queue. The context is the one
// given to Submit, forwarded at dispatch time; args are forwarded verbatim.
type TaskFunc func(ctx context.Context, args ...any) (any, error)

// task is a deferred invocation: it is created by Submit and consumed from
// the pending list exactly once, at dispatch time.
type task struct {
	id     string
	fn     TaskFunc
	args   []any
	ctx    context.Context
	result *Result
}

// Queue dispatches submitted tasks in FIFO order, pacing dispatches through
// a limiter so that an external quota is respected. Dispatch is serialized;
// the tasks themselves run concurrently, so settlement order may interleave.
type Queue struct {
	name string
	lim  limiter.Limiter
	log  *slog.Logger
	sem  *semaphore.Weighted

	mu       sync.Mutex
	pending  []*task
	draining bool

	inFlight  int
	completed int
	totalDur  time.Duration
}

// New creates a Queue that dispatches at most perMinute tasks per minute,
// evenly spaced. perMinute <= 0 disables pacing entirely: tasks dispatch
// back-to-back, still in FIFO order. The name appears in log lines only.
func New(perMinute int, name string, opts ...Option) *Queue {
	q := &Queue{
		name: name,
		log:  slog.New(nopHandler{}),
	}
	if perMinute > 0 {
		q.lim = limiter.PerMinute(perMinute)
	}

	// Apply all provided options
	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used for dispatch and settlement lines.
// The default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		q.log = l
	}
}

// WithLimiter replaces the default uniform-interval limiter, e.g. with a
// limiter.Window or limiter.Token. It overrides the perMinute argument
// given to New.
func WithLimiter(l limiter.Limiter) Option {
	return func(q *Queue) {
		q.lim = l
	}
}

// WithMaxInFlight caps the number of tasks running at the same time.
// The default is unlimited: dispatch is paced, execution is not.
func WithMaxInFlight(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// Submit appends a task to the queue and returns a Result that settles
// exactly once with fn's own outcome, after the task has been dispatched.
// Submit never dispatches synchronously; it only wakes the drain loop when
// the queue transitions from empty to non-empty, so a burst of submissions
// batches before the first dispatch.
//
// ctx is forwarded to fn at dispatch time. The queue never drops a submitted
// task (there is no cancellation of queued work); honoring ctx is fn's
// business once it runs.
func (q *Queue) Submit(ctx context.Context, fn TaskFunc, args ...any) *Result {
	if ctx == nil {
		ctx = context.Background()
	}

	t := &task{
		id:     uuid.NewString(),
		fn:     fn,
		args:   args,
		ctx:    ctx,
		result: newResult(),
	}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	wake := !q.draining
	q.draining = true
	q.mu.Unlock()

	if wake {
		go q.drain()
	}

	return t.result
}

// Stats is a point-in-time snapshot of queue activity.
type Stats struct {
	Pending     int           // tasks waiting for dispatch
	InFlight    int           // tasks dispatched but not yet settled
	Completed   int           // tasks settled over the queue's lifetime
	AvgDuration time.Duration // mean task duration over Completed
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Pending:     len(q.pending),
		InFlight:    q.inFlight,
		Completed:   q.completed,
		AvgDuration: q.avgLocked(),
	}
}

// drain is the single dispatch loop. It runs while work is pending and
// exits once the queue empties; Submit restarts it on the next append.
// Only this goroutine pops tasks, so dispatch order is submission order.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.dispatch(t)
	}
}

// dispatch waits out the limiter's reservation, then starts t in its own
// goroutine. A defect here is logged and swallowed so one bad task cannot
// stall the rest of the queue.
func (q *Queue) dispatch(t *task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("task dispatch failed",
				slog.String("queue", q.name),
				slog.String("task", t.id),
				slog.Any("error", r))
		}
	}()

	if q.lim != nil {
		if d := q.lim.Reserve(time.Now()); d > 0 {
			time.Sleep(d)
		}
	}
	if q.sem != nil {
		// Background context: a queued task is never abandoned, it waits.
		_ = q.sem.Acquire(context.Background(), 1)
	}

	start := time.Now()

	q.mu.Lock()
	q.inFlight++
	running := q.inFlight
	depth := len(q.pending)
	avg := q.avgLocked()
	q.mu.Unlock()

	q.log.Debug("dispatching task",
		slog.String("queue", q.name),
		slog.String("task", t.id),
		slog.Int("running", running),
		slog.Int("queued", depth),
		slog.String("avg_duration_sec", formatSeconds(avg)))

	go q.run(t, start)
}

// run executes the task and settles its Result. A panic inside fn becomes
// the Result's error, so the caller is still notified exactly once.
func (q *Queue) run(t *task, start time.Time) {
	var (
		val any
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		val, err = t.fn(t.ctx, t.args...)
	}()

	elapsed := time.Since(start)

	q.mu.Lock()
	q.inFlight--
	q.completed++
	q.totalDur += elapsed
	running := q.inFlight
	depth := len(q.pending)
	q.mu.Unlock()

	if q.sem != nil {
		q.sem.Release(1)
	}

	q.log.Debug("task settled",
		slog.String("queue", q.name),
		slog.String("task", t.id),
		slog.Int("running", running),
		slog.Int("queued", depth),
		slog.Any("args", redactArgs(t.args)),
		slog.String("duration_sec", formatSeconds(elapsed)),
		slog.Bool("ok", err == nil))

	t.result.settle(val, err)
}

// avgLocked returns the running mean task duration; 0 before the first
// settlement. Callers must hold q.mu.
func (q *Queue) avgLocked() time.Duration {
	if q.completed == 0 {
		return 0
	}
	return q.totalDur / time.Duration(q.completed)
}

// formatSeconds renders a duration as seconds with 3 decimal places.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// nopHandler is the default logging sink: absence of a logger is never
// fatal, the queue just stays quiet.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
