package play

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestLevelWatcherFiltersEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")

	w, err := NewLevelWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write})
	assert.False(t, pending(w.Reload), "other file")

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	assert.False(t, pending(w.Reload), "chmod")

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Create})
	assert.Len(t, w.Reload, 1, "coalesced")
	assert.True(t, pending(w.Reload))
	assert.False(t, pending(w.Reload))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Rename})
	assert.True(t, pending(w.Reload), "rename")
}

func TestLevelWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	w, err := NewLevelWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()
	assert.Equal(t, path, w.Path())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// The directory is added asynchronously; keep writing until a change is seen
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("name: b\n"), 0o644)
		return pending(w.Reload)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
