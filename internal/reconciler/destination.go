package reconciler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/moby/sys/atomicwriter"
	"golang.org/x/sync/errgroup"

	"txtsync/internal/config"
	"txtsync/internal/transform"
	"txtsync/pkg/logging"
)

// Destination keeps one output file equal to the assembly of its sources.
//
// Every trigger source (Start, the periodic ticker and filesystem events on
// the file or its ancestors) funnels into a Runner, so cycles for one
// destination never overlap.
type Destination struct {
	spec     config.DestinationSpec
	path     string
	interval time.Duration
	fetcher  Fetcher
	opts     options
	runner   *Runner

	mu         sync.Mutex
	watch      *pathWatcher
	stopTicker chan struct{}
	started    bool
	destroyed  bool

	tickerWG sync.WaitGroup
}

// NewDestination creates a reconciler for spec. Nothing happens until Start.
func NewDestination(spec config.DestinationSpec, fetcher Fetcher, opts ...Option) *Destination {
	path := filepath.Clean(spec.Destination)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	d := &Destination{
		spec:     spec,
		path:     path,
		interval: spec.Interval(),
		fetcher:  fetcher,
		opts:     buildOptions(opts),
	}
	d.runner = NewRunner(path, d.reconcile, WithErrorHandler(func(err error) {
		logging.Error("Destination", err, "Cycle for %s failed", d.path)
	}))
	return d
}

// Start arms the filesystem watches, starts the periodic refresh and
// triggers the initial cycle. Starting twice is a no-op.
func (d *Destination) Start() error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrAlreadyClosed
	}
	if d.started {
		d.mu.Unlock()
		return nil
	}
	d.started = true
	d.stopTicker = make(chan struct{})
	ticker := d.opts.clock.NewTicker(d.interval)
	d.tickerWG.Add(1)
	go d.tick(ticker, d.stopTicker)
	d.mu.Unlock()

	logging.Info("Destination", "Reconciling %s from %d sources every %s",
		d.path, len(d.spec.Sources), units.HumanDuration(d.interval))

	d.arm()
	d.Trigger()
	return nil
}

func (d *Destination) tick(ticker clock.Ticker, stop <-chan struct{}) {
	defer d.tickerWG.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			logging.Debug("Destination", "Periodic refresh of %s", d.path)
			d.Trigger()
		}
	}
}

// Trigger requests a cycle. It never blocks.
func (d *Destination) Trigger() {
	d.runner.Trigger()
}

// Wait blocks until no cycle is running or pending and returns the
// failures of the cycles it waited for.
func (d *Destination) Wait(ctx context.Context) error {
	return d.runner.Wait(ctx)
}

// Path returns the absolute path of the destination file.
func (d *Destination) Path() string {
	return d.path
}

// Spec returns the configuration the destination was built from.
func (d *Destination) Spec() config.DestinationSpec {
	return d.spec
}

// Close stops the ticker and the watches and waits for in-flight cycles to
// finish. It returns ErrAlreadyClosed when called again.
func (d *Destination) Close() error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrAlreadyClosed
	}
	d.destroyed = true
	if d.stopTicker != nil {
		close(d.stopTicker)
	}
	w := d.watch
	d.watch = nil
	d.mu.Unlock()

	d.tickerWG.Wait()
	if w != nil {
		if err := w.Close(); err != nil {
			logging.Warn("Destination", "Closing watches for %s: %v", d.path, err)
		}
	}

	// Errors of the drained cycles were already logged by the runner.
	_ = d.runner.Close()

	logging.Debug("Destination", "Closed %s", d.path)
	return nil
}

// arm replaces the current watches with fresh ones so that targets created
// since the last arm are picked up.
func (d *Destination) arm() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return
	}
	if d.watch != nil {
		_ = d.watch.Close()
		d.watch = nil
	}

	w, err := newPathWatcher(d.path, d.onFilesystemEvent)
	if err != nil {
		logging.Error("Destination", err, "Failed to watch %s", d.path)
		return
	}
	d.watch = w
}

func (d *Destination) disarm() {
	d.mu.Lock()
	w := d.watch
	d.watch = nil
	d.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

func (d *Destination) onFilesystemEvent(event fsnotify.Event) {
	logging.Debug("Destination", "Change detected on %s (%s), reconciling %s", event.Name, event.Op, d.path)
	d.Trigger()
}

// reconcile is one rebuild cycle.
func (d *Destination) reconcile(ctx context.Context) error {
	cycleID := uuid.NewString()
	start := d.opts.clock.Now()

	outcomes := d.fetchSources(ctx, cycleID)
	desired := assemble(d.opts.clock.Now(), outcomes)

	current, err := d.readCurrent()
	if err != nil {
		recordCycle(cycleFailed, d.opts.clock.Since(start))
		return err
	}

	if sameBody(current, desired) {
		recordCycle(cycleUnchanged, d.opts.clock.Since(start))
		logging.Debug("Destination", "%s is up to date (cycle %s)", d.path, cycleID)
		return nil
	}

	if err := d.write(desired); err != nil {
		recordCycle(cycleFailed, d.opts.clock.Since(start))
		return err
	}

	elapsed := d.opts.clock.Since(start)
	recordCycle(cycleWritten, elapsed)

	stale, failed := countDegraded(outcomes)
	logging.Info("Destination", "Wrote %s: %d bytes, %d sources (%d stale, %d failed) in %s (cycle %s)",
		d.path, len(desired), len(outcomes), stale, failed, units.HumanDuration(elapsed), cycleID)
	return nil
}

// fetchSources fetches every source concurrently and returns the outcomes in
// configuration order. Source failures are recorded, never returned.
func (d *Destination) fetchSources(ctx context.Context, cycleID string) []sourceOutcome {
	outcomes := make([]sourceOutcome, len(d.spec.Sources))

	var g errgroup.Group
	g.SetLimit(d.opts.fetchConcurrency)

	for i, src := range d.spec.Sources {
		g.Go(func() error {
			res, err := d.fetcher.Fetch(ctx, src.URL, d.interval)
			if err != nil {
				logging.Warn("Destination", "Source %s for %s unavailable (cycle %s): %v", src.URL, d.path, cycleID, err)
				outcomes[i] = sourceOutcome{url: src.URL, status: statusFailed}
				return nil
			}

			status := statusFresh
			if !res.Fresh {
				status = statusStale
			}
			outcomes[i] = sourceOutcome{
				url:     src.URL,
				content: transform.Apply(src.Transform, res.Content),
				status:  status,
			}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// readCurrent returns the on-disk content, empty when the file is missing.
func (d *Destination) readCurrent() (string, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &DestinationIOError{Path: d.path, Op: "read", Err: err}
	}
	return string(data), nil
}

// write replaces the destination file. Watches are off during the write so
// the destination does not react to its own change.
func (d *Destination) write(content string) error {
	d.disarm()
	defer d.arm()

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return &DestinationIOError{Path: d.path, Op: "mkdir", Err: err}
	}
	if err := atomicwriter.WriteFile(d.path, []byte(content), 0o644); err != nil {
		return &DestinationIOError{Path: d.path, Op: "write", Err: err}
	}
	return nil
}

func countDegraded(outcomes []sourceOutcome) (stale, failed int) {
	for _, o := range outcomes {
		switch o.status {
		case statusStale:
			stale++
		case statusFailed:
			failed++
		}
	}
	return stale, failed
}
