// Package watch re-triggers document checks when files change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period applied when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Callback is called with the absolute path of a changed file once its
// events have settled.
type Callback func(path string)

// Options configures a watch.
type Options struct {
	// Root is a directory watched recursively, or a single file whose
	// parent directory is watched.
	Root string
	// Match selects the files that trigger the callback.
	Match func(path string) bool
	// Debounce is the quiet period after the last event for a path.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch starts an fsnotify watcher and calls cb for matching files that are
// created, written or renamed into place, until ctx is cancelled. Bursts of
// events for the same path are collapsed into one call.
//
// New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, opts Options, cb Callback) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}
	match := opts.Match
	single := false
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		target := root
		root = filepath.Dir(root)
		match = func(p string) bool { return p == target }
		single = true
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if single {
		err = w.Add(root)
	} else {
		err = addDirsRecursive(w, root)
	}
	if err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]*time.Timer)
	ready := make(chan string, 16)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	schedule := func(path string) {
		if t, ok := pending[path]; ok {
			t.Reset(debounce)
			return
		}
		pending[path] = time.AfterFunc(debounce, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case path := <-ready:
			delete(pending, path)
			if _, statErr := os.Stat(path); statErr != nil {
				logger.Debug("watcher: vanished before check", slog.String("path", path))
				continue
			}
			cb(path)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !single && ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					scheduleDir(ev.Name, match, schedule)
					continue
				}
			}

			if !match(ev.Name) {
				continue
			}
			// Rename and Remove fire on the old name; editors that save via
			// a temp file deliver the new content as a Create on the target.
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				logger.Debug("watcher: changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule(ev.Name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// scheduleDir schedules every matching file already present in a newly
// created directory.
func scheduleDir(dir string, match func(string) bool, schedule func(string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !match(path) {
			return nil
		}
		schedule(path)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
