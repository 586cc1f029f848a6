package reconciler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"txtsync/internal/config"
	"txtsync/pkg/logging"
)

// Supervisor owns the destinations described by one configuration file and
// rebuilds the whole set whenever the file changes.
//
// The held set is always replaced wholesale. A configuration that fails to
// load leaves the previous set running untouched.
type Supervisor struct {
	configPath string
	fetcher    Fetcher
	opts       []Option
	settings   options
	runner     *Runner

	mu           sync.Mutex
	watch        *pathWatcher
	destinations []*Destination
	lastLoaded   time.Time
	started      bool
	destroyed    bool

	// draining tracks destinations of earlier generations being closed
	draining sync.WaitGroup
}

// NewSupervisor creates a supervisor for the configuration file at
// configPath. opts are passed on to every destination it creates.
func NewSupervisor(configPath string, fetcher Fetcher, opts ...Option) *Supervisor {
	path := filepath.Clean(configPath)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s := &Supervisor{
		configPath: path,
		fetcher:    fetcher,
		opts:       opts,
		settings:   buildOptions(opts),
	}
	s.runner = NewRunner(path, s.reload, WithErrorHandler(func(err error) {
		logging.Error("Supervisor", err, "Reload of %s failed, keeping the current destinations", s.configPath)
	}))
	return s
}

// Start watches the configuration file and triggers the initial load.
// Starting twice is a no-op.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrAlreadyClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	logging.Info("Supervisor", "Watching %s", s.configPath)

	s.arm()
	s.Trigger()
	return nil
}

// Trigger requests a reload. It never blocks.
func (s *Supervisor) Trigger() {
	s.runner.Trigger()
}

// Wait blocks until no reload is running or pending and then until every
// held destination is idle. It returns the failures observed meanwhile.
func (s *Supervisor) Wait(ctx context.Context) error {
	err := s.runner.Wait(ctx)

	errs := []error{err}
	for _, d := range s.Destinations() {
		errs = append(errs, d.Wait(ctx))
	}
	return errors.Join(errs...)
}

// ConfigPath returns the absolute path of the supervised file.
func (s *Supervisor) ConfigPath() string {
	return s.configPath
}

// Destinations returns a snapshot of the currently held destinations in
// configuration order.
func (s *Supervisor) Destinations() []*Destination {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Destination, len(s.destinations))
	copy(out, s.destinations)
	return out
}

// LastLoaded returns when the configuration was last loaded successfully,
// or the zero time if it never was.
func (s *Supervisor) LastLoaded() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLoaded
}

// Close stops watching the configuration, waits for an in-flight reload and
// tears down every destination, earlier generations included. It returns
// ErrAlreadyClosed when called again.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrAlreadyClosed
	}
	s.destroyed = true
	w := s.watch
	s.watch = nil
	s.mu.Unlock()

	if w != nil {
		if err := w.Close(); err != nil {
			logging.Warn("Supervisor", "Closing watches for %s: %v", s.configPath, err)
		}
	}

	_ = s.runner.Close()

	s.mu.Lock()
	held := s.destinations
	s.destinations = nil
	s.mu.Unlock()

	s.teardown(held)
	s.draining.Wait()

	logging.Info("Supervisor", "Stopped supervising %s", s.configPath)
	return nil
}

// reload is the unit of work of the supervisor's runner.
func (s *Supervisor) reload(ctx context.Context) error {
	// Editors often replace the file, which drops the watch on the old inode.
	defer s.arm()

	doc, err := config.LoadFile(s.configPath)
	if err != nil {
		recordReload(reloadFailed)
		return err
	}

	next := make([]*Destination, 0, len(doc))
	for _, spec := range doc {
		next = append(next, NewDestination(spec, s.fetcher, s.opts...))
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	previous := s.destinations
	s.destinations = next
	s.lastLoaded = s.settings.clock.Now()
	s.mu.Unlock()

	s.teardown(previous)
	activeDestinations.Add(float64(len(next)))

	for _, d := range next {
		if err := d.Start(); err != nil {
			logging.Warn("Supervisor", "Destination %s not started: %v", d.Path(), err)
		}
	}

	recordReload(reloadSucceeded)
	logging.Info("Supervisor", "Loaded %s: %d destinations (replaced %d)", s.configPath, len(next), len(previous))
	return nil
}

// teardown closes destinations in the background. Close waits for them via
// draining.
func (s *Supervisor) teardown(destinations []*Destination) {
	activeDestinations.Sub(float64(len(destinations)))

	for _, d := range destinations {
		s.draining.Add(1)
		go func() {
			defer s.draining.Done()
			if err := d.Close(); err != nil && !errors.Is(err, ErrAlreadyClosed) {
				logging.Warn("Supervisor", "Closing destination %s: %v", d.Path(), err)
			}
		}()
	}
}

func (s *Supervisor) arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	if s.watch != nil {
		_ = s.watch.Close()
		s.watch = nil
	}

	w, err := newPathWatcher(s.configPath, s.onFilesystemEvent)
	if err != nil {
		logging.Error("Supervisor", err, "Failed to watch %s", s.configPath)
		return
	}
	s.watch = w
}

func (s *Supervisor) onFilesystemEvent(event fsnotify.Event) {
	logging.Debug("Supervisor", "Configuration change detected (%s %s)", event.Op, event.Name)
	s.Trigger()
}
