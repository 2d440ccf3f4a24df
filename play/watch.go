package play

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// LevelWatcher reports changes to one level file
//
// The parent directory is watched rather than the file itself so editors that
// save by rename keep being observed
type LevelWatcher struct {
	path    string
	name    string
	watcher *fsnotify.Watcher
	log     *slog.Logger

	// Reload receives a signal per burst of changes; coalesced, never blocks the watcher
	Reload chan struct{}
}

// NewLevelWatcher creates a watcher for the level file at path
func NewLevelWatcher(path string, log *slog.Logger) (*LevelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &LevelWatcher{
		path:    abs,
		name:    filepath.Base(abs),
		watcher: watcher,
		log:     log,
		Reload:  make(chan struct{}, 1),
	}, nil
}

// Start watches until ctx is cancelled or the watcher is closed
// Blocks; run it in its own goroutine
func (w *LevelWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Debug("watching level file", "path", w.path)

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("level watcher error", "error", err)

		case <-ctx.Done():
			w.log.Debug("level watcher stopping")
			return nil
		}
	}
}

// handleEvent filters events down to writes and replacements of the level file
func (w *LevelWatcher) handleEvent(ev fsnotify.Event) {
	if filepath.Base(ev.Name) != w.name {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.log.Debug("level file changed", "path", ev.Name, "op", ev.Op.String())
	select {
	case w.Reload <- struct{}{}:
	default:
	}
}

// Path returns the absolute path being watched
func (w *LevelWatcher) Path() string {
	return w.path
}

// Stop releases the watcher; safe to call more than once
func (w *LevelWatcher) Stop() error {
	return w.watcher.Close()
}
