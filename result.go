package throttlequeue

import "context"

// Result represents the eventual outcome of a submitted task. It settles
// exactly once, with the value or error the task function itself produced.
type Result struct {
	done chan struct{}
	val  any
	err  error
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

// Done returns a channel that is closed when the task has settled.
func (r *Result) Done() <-chan struct{} { return r.done }

// Value blocks until the task settles and returns its outcome.
func (r *Result) Value() (any, error) {
	<-r.done
	return r.val, r.err
}

// Err blocks until the task settles and returns its error, if any.
func (r *Result) Err() error {
	<-r.done
	return r.err
}

// Get waits for settlement or for ctx to end, whichever comes first.
// An early return does not cancel the task; it stays queued and runs.
func (r *Result) Get(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		return r.val, r.err
	}
}

// settle records the outcome and releases all waiters. Called exactly once,
// by the goroutine that ran the task.
func (r *Result) settle(val any, err error) {
	r.val = val
	r.err = err
	close(r.done)
}
