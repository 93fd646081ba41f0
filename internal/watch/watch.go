// Package watch rebuilds a package whenever its tracked tree changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged and the loop continues.
type BuildFunc func(ctx context.Context) error

// Watcher watches a package tree, skipping ignored names.
type Watcher struct {
	root     string
	ignore   map[string]struct{}
	debounce time.Duration
	build    BuildFunc
}

// New creates a Watcher for root.
func New(root string, ignore map[string]struct{}, build BuildFunc) *Watcher {
	return &Watcher{root: root, ignore: ignore, debounce: DefaultDebounce, build: build}
}

// WithDebounce overrides the debounce interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Run builds once, then rebuilds after each burst of changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addDirsRecursive(watcher, w.root); err != nil {
		return err
	}

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	w.runBuild(ctx)
	slog.Info("Watching for changes", logfields.Path(w.root))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case <-rebuildReq:
			w.runBuild(ctx)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	if err := w.build(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("rebuild failed", logfields.Error(err))
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// ignored reports whether any path component below root is an ignored name.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, skip := w.ignore[part]; skip {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// newDebouncer returns a channel that receives once per quiet period after
// trigger calls, plus a stop function.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}
