package reconciler

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"txtsync/pkg/logging"
)

// pathWatcher watches one target path together with every ancestor
// directory up to the root. fsnotify watches are non-recursive, so each
// path on the chain is added on its own. Paths that do not exist yet are
// skipped; the owner re-arms by closing the watcher and creating a new one.
type pathWatcher struct {
	target string

	// chain holds target and each of its ancestors
	chain map[string]struct{}

	onChange func(fsnotify.Event)
	watcher  *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// newPathWatcher starts watching target and its ancestors. onChange is
// called from the watcher goroutine for every relevant event and must not
// block.
func newPathWatcher(target string, onChange func(fsnotify.Event)) (*pathWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &pathWatcher{
		target:   target,
		chain:    make(map[string]struct{}),
		onChange: onChange,
		watcher:  watcher,
		done:     make(chan struct{}),
	}

	watched := 0
	for _, p := range ancestorChain(target) {
		w.chain[p] = struct{}{}

		if err := watcher.Add(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Debug("Watch", "Skipping watch on %s: does not exist yet", p)
			} else {
				logging.Warn("Watch", "Failed to watch %s: %v", p, err)
			}
			continue
		}
		watched++
	}

	w.wg.Add(1)
	go w.processEvents()

	logging.Debug("Watch", "Armed %d of %d watches for %s", watched, len(w.chain), target)
	return w, nil
}

func (w *pathWatcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logging.Debug("Watch", "%s: %s", w.target, event)
			w.onChange(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watch", err, "Watcher error for %s", w.target)
		}
	}
}

// relevant drops metadata-only events and events about siblings of the
// chain, which directory watches report as well.
func (w *pathWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&^fsnotify.Chmod == 0 {
		return false
	}
	_, onChain := w.chain[filepath.Clean(event.Name)]
	return onChain
}

// Close stops event delivery and releases the underlying watches. No
// onChange call is in progress once Close returns.
func (w *pathWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// ancestorChain returns path followed by each of its parent directories up
// to and including the root.
func ancestorChain(path string) []string {
	p := filepath.Clean(path)
	chain := []string{p}
	for {
		parent := filepath.Dir(p)
		if parent == p {
			return chain
		}
		chain = append(chain, parent)
		p = parent
	}
}
