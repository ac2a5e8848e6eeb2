package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after a change before Watch runs.
const DefaultDebounce = 200 * time.Millisecond

// Watcher re-runs a function when the record sources of a set of paths
// change.
type Watcher struct {
	dirs []string
	// trees are the roots of package patterns, watched with all their
	// package directories.
	trees    []string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher returns a watcher of the directories of the given input paths.
// Patterns ending in "/..." are watched with every directory below their
// root, following the go tool rules for ignored directories.
func NewWatcher(paths []string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{debounce: DefaultDebounce, logger: logger}
	seen := make(map[string]bool)
	for _, p := range paths {
		dir := defaultTarget(p)
		if strings.HasSuffix(p, "...") {
			if !seen["tree:"+dir] {
				seen["tree:"+dir] = true
				w.trees = append(w.trees, dir)
			}
			continue
		}
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w
}

// WithDebounce sets the quiet period after a change.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch calls fn on every batch of source changes until the context is
// canceled. Errors returned by fn are logged and do not stop watching.
// Generated files are ignored, so fn may write into the watched directories.
func (w *Watcher) Watch(ctx context.Context, fn func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("compiler: create watcher: %w", err)
	}
	defer fw.Close()
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("compiler: watch %s: %w", dir, err)
		}
	}
	for _, root := range w.trees {
		if err := addTree(fw, root); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", "dirs", w.dirs, "trees", w.trees)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.inTree(event.Name) && isDir(event.Name) {
				if err := addTree(fw, event.Name); err != nil {
					w.logger.Warn("watch error", "error", err)
				}
				continue
			}
			if !isSource(event) {
				continue
			}
			w.logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				w.logger.Error("regeneration failed", "error", err)
			}
		}
	}
}

// inTree reports if path is below one of the watched pattern roots.
func (w *Watcher) inTree(path string) bool {
	for _, root := range w.trees {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addTree watches root and the directories below it, skipping those the go
// tool ignores: testdata and names starting with "." or "_".
func addTree(fw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && (name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("compiler: watch %s: %w", root, err)
	}
	return nil
}

// isSource reports if the event changes a record source file.
func isSource(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	switch filepath.Ext(name) {
	case ".go":
		return !strings.HasSuffix(name, "_autocolumn.go") && !strings.HasSuffix(name, "_test.go")
	case ".yaml", ".yml":
		return !strings.HasPrefix(name, "autocolumn.")
	default:
		return false
	}
}
