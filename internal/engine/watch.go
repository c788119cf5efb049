package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before changed labels are re-validated.
const DefaultDebounce = 200 * time.Millisecond

// WatchFunc receives the reports for each debounced batch of changed labels.
type WatchFunc func(ctx context.Context, reports []FileReport)

// Watch re-validates label files under dirs whenever they are written or
// created, until ctx is cancelled. Events within debounce are coalesced into
// one batch. A debounce <= 0 uses DefaultDebounce.
func (e *Engine) Watch(ctx context.Context, dirs []string, opts DiscoveryOptions, debounce time.Duration, fn WatchFunc) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	roots := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
		if err := e.watchDir(watcher, abs, opts); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		roots = append(roots, abs)
	}
	e.logger.Info("watching for label changes", "dirs", roots)

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) && opts.Recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := e.watchDir(watcher, event.Name, opts); err != nil {
						e.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !opts.Matches(event.Name, relativeTo(roots, event.Name)) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			sort.Strings(files)

			e.logger.Debug("change detected", "files", len(files))
			reports, err := e.ValidateFiles(ctx, files)
			if err != nil {
				return nil
			}
			if fn != nil {
				fn(ctx, reports)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			e.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir adds dir, and its subdirectories when recursive, to the watcher.
func (e *Engine) watchDir(watcher *fsnotify.Watcher, dir string, opts DiscoveryOptions) error {
	if !opts.Recursive {
		return watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip hidden directories
		if path != dir && len(d.Name()) > 0 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relativeTo returns path relative to the first root containing it.
func relativeTo(roots []string, path string) string {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel
		}
	}
	return path
}
