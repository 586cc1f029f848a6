package reconciler

import (
	"context"
	"errors"
	"sync"
)

// WorkFunc is the unit of work driven by a Runner.
type WorkFunc func(ctx context.Context) error

// Runner executes a WorkFunc so that it never runs concurrently with itself
// and so that triggers arriving while it runs collapse into a single rerun.
//
//	Idle                    --Trigger-->  Running (work starts)
//	Running                 --Trigger-->  RunningWithRerunPending
//	RunningWithRerunPending --Trigger-->  (no-op)
//	Running                 --done----->  Idle
//	RunningWithRerunPending --done----->  Running (work starts again)
type Runner struct {
	name    string
	work    WorkFunc
	ctx     context.Context
	onError func(error)

	mu         sync.Mutex
	state      TaskState
	busy       *busyPeriod
	closed     bool
	executions uint64
}

// busyPeriod spans from leaving Idle to returning to it.
type busyPeriod struct {
	done chan struct{}
	errs []error

	// err is set before done is closed
	err error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithErrorHandler registers a callback invoked with every failed execution.
func WithErrorHandler(fn func(error)) RunnerOption {
	return func(r *Runner) {
		r.onError = fn
	}
}

// WithWorkContext sets the context passed to the work function.
func WithWorkContext(ctx context.Context) RunnerOption {
	return func(r *Runner) {
		r.ctx = ctx
	}
}

// NewRunner creates an idle runner for work.
func NewRunner(name string, work WorkFunc, opts ...RunnerOption) *Runner {
	r := &Runner{
		name: name,
		work: work,
		ctx:  context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger requests an execution. It never blocks: from Idle the work starts
// in a new goroutine, while running at most one rerun is queued. After Close
// it does nothing.
func (r *Runner) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	switch r.state {
	case StateIdle:
		r.state = StateRunning
		r.busy = &busyPeriod{done: make(chan struct{})}
		go r.loop(r.busy)
	case StateRunning:
		r.state = StateRunningWithRerunPending
	case StateRunningWithRerunPending:
		// A rerun is already guaranteed.
	}
}

// loop runs the work until a completion finds no rerun pending.
func (r *Runner) loop(period *busyPeriod) {
	for {
		err := r.work(r.ctx)
		if err != nil && r.onError != nil {
			r.onError(err)
		}

		r.mu.Lock()
		r.executions++
		if err != nil {
			period.errs = append(period.errs, err)
		}

		if r.state == StateRunningWithRerunPending {
			r.state = StateRunning
			r.mu.Unlock()
			continue
		}

		r.state = StateIdle
		r.busy = nil
		period.err = errors.Join(period.errs...)
		close(period.done)
		r.mu.Unlock()
		return
	}
}

// Wait blocks until the runner is Idle, i.e. until the current execution and
// any pending rerun have completed. It returns every failure of that busy
// period joined together, nil when already Idle, or ctx.Err() if ctx ends
// first.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	period := r.busy
	r.mu.Unlock()

	if period == nil {
		return nil
	}

	select {
	case <-period.done:
		return period.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting triggers and waits for in-flight work, including a
// pending rerun, to drain. Calling Close again is harmless.
func (r *Runner) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	return r.Wait(context.Background())
}

// State returns the current scheduling state.
func (r *Runner) State() TaskState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Executions returns how many times the work has completed.
func (r *Runner) Executions() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executions
}

// Name identifies the runner in logs.
func (r *Runner) Name() string {
	return r.name
}
