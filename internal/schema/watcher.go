package schema

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a schema directory for changes to schema files.
type Watcher struct {
	dir    string
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a new Watcher for the given schema directory.
func NewWatcher(dir string, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:        dir,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch starts monitoring the directory. It calls the provided callback
// whenever a schema file is written, created, removed or renamed, after a
// short debounce. It blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func()) error {
	info, err := os.Stat(w.dir)
	if err != nil || !info.IsDir() {
		return &SchemaDirNotFoundError{Path: w.dir}
	}

	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.dir); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.dir)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(watcher, event) {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDuration, callback)
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to
// the watcher. It reports whether the event should trigger a reload.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	_, ok := NameFromPath(event.Name)
	if ok {
		w.logger.Debug("Schema file changed", "path", event.Name, "op", event.Op.String())
	}
	return ok
}

// addRecursive adds the given path and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
