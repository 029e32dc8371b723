package load

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before calling back.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls back when card documents under a directory change.
type Watcher struct {
	Path string
	// Debounce is the quiet period after the last change. Defaults to
	// DefaultDebounce.
	Debounce time.Duration
	// Logger receives callback and watcher errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watch runs w until ctx is done. See Watcher.Run.
func Watch(ctx context.Context, dir string, fn func(context.Context) error) error {
	return (&Watcher{Path: dir}).Run(ctx, fn)
}

// Run watches the directory tree and calls fn once per burst of changes to
// card documents. Errors returned by fn are logged and watching goes on.
// Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return &LoadError{Path: w.Path, Err: err}
	}
	defer fw.Close()
	if err := w.add(fw, w.Path); err != nil {
		return err
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if err := w.add(fw, ev.Name); err != nil {
					log.Debug("not watching new path", "path", ev.Name, "error", err)
				}
			}
			if relevant(ev) {
				timer.Reset(debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watching card documents", "path", w.Path, "error", err)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Error("recompiling after change failed", "path", w.Path, "error", err)
			}
		}
	}
}

// add watches root and the directories beneath it.
func (w *Watcher) add(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return &LoadError{Path: path, Err: err}
		case !e.IsDir():
			return nil
		case path != root && strings.HasPrefix(e.Name(), "."):
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return &LoadError{Path: path, Err: err}
		}
		return nil
	})
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(ev.Name)))
}
