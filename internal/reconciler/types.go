package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"

	"txtsync/internal/fetch"
)

// TaskState represents the scheduling state of a Runner.
type TaskState int

const (
	// StateIdle means no execution is in flight.
	StateIdle TaskState = iota

	// StateRunning means one execution is in flight and nothing is queued.
	StateRunning

	// StateRunningWithRerunPending means one execution is in flight and
	// exactly one more will start when it completes.
	StateRunningWithRerunPending
)

func (s TaskState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateRunningWithRerunPending:
		return "RunningWithRerunPending"
	default:
		return "Unknown"
	}
}

// Fetcher serves source content. *fetch.Cache implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, ttl time.Duration) (fetch.Result, error)
}

// ErrAlreadyClosed is returned when a Destination or Supervisor is closed twice.
var ErrAlreadyClosed = errors.New("already closed")

// DestinationIOError reports a failure to read or write a destination file
// other than the file not existing. It aborts the current cycle only.
type DestinationIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *DestinationIOError) Error() string {
	return fmt.Sprintf("destination %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *DestinationIOError) Unwrap() error {
	return e.Err
}

// DefaultFetchConcurrency bounds the number of sources of one destination
// fetched at the same time.
const DefaultFetchConcurrency = 8

// options holds settings shared by Supervisor and Destination.
type options struct {
	clock            clock.Clock
	fetchConcurrency int
}

// Option configures a Supervisor or Destination.
type Option func(*options)

// WithClock sets the clock driving periodic refreshes and header timestamps.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithFetchConcurrency bounds concurrent source fetches per destination.
func WithFetchConcurrency(n int) Option {
	return func(o *options) {
		o.fetchConcurrency = n
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:            clock.NewClock(),
		fetchConcurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fetchConcurrency <= 0 {
		o.fetchConcurrency = DefaultFetchConcurrency
	}
	return o
}
