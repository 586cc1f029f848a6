package reconciler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestorChain(t *testing.T) {
	assert.Equal(t, []string{"/a/b/c.txt", "/a/b", "/a", "/"}, ancestorChain("/a/b/c.txt"))
	assert.Equal(t, []string{"/a", "/"}, ancestorChain("/a/./b/.."))
	assert.Equal(t, []string{"/"}, ancestorChain("/"))
}

func TestPathWatcher_Relevant(t *testing.T) {
	w := &pathWatcher{chain: map[string]struct{}{}}
	for _, p := range ancestorChain("/srv/www/ads.txt") {
		w.chain[p] = struct{}{}
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to target", fsnotify.Event{Name: "/srv/www/ads.txt", Op: fsnotify.Write}, true},
		{"target removed", fsnotify.Event{Name: "/srv/www/ads.txt", Op: fsnotify.Remove}, true},
		{"ancestor renamed", fsnotify.Event{Name: "/srv/www", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/srv/www/ads.txt", Op: fsnotify.Chmod}, false},
		{"chmod with write", fsnotify.Event{Name: "/srv/www/ads.txt", Op: fsnotify.Chmod | fsnotify.Write}, true},
		{"sibling file", fsnotify.Event{Name: "/srv/www/index.html", Op: fsnotify.Create}, false},
		{"sibling directory", fsnotify.Event{Name: "/srv/logs", Op: fsnotify.Remove}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestPathWatcher_MissingTargetsAreSkipped(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "missing", "ads.txt")

	events := make(chan fsnotify.Event, 16)
	w, err := newPathWatcher(target, func(ev fsnotify.Event) { events <- ev })
	require.NoError(t, err)
	defer w.Close()

	// root is watched, so creating the first missing ancestor is reported.
	require.NoError(t, os.Mkdir(filepath.Join(root, "missing"), 0o755))

	select {
	case ev := <-events:
		assert.Equal(t, filepath.Join(root, "missing"), ev.Name)
		assert.True(t, ev.Has(fsnotify.Create))
	case <-time.After(eventuallyTimeout):
		t.Fatal("no event for the created ancestor")
	}
}

func TestPathWatcher_CloseStopsDelivery(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "ads.txt")

	events := make(chan fsnotify.Event, 16)
	w, err := newPathWatcher(target, func(ev fsnotify.Event) { events <- ev })
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	select {
	case ev := <-events:
		t.Fatalf("unexpected event after Close: %s", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
