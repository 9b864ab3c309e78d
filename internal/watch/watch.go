// Package watch re-runs analysis on source files as they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of writes from editors saving a file.
const DefaultDebounce = 500 * time.Millisecond

// Handler is invoked once per settled change.
type Handler func(ctx context.Context, path string)

// Filter reports whether a changed path is of interest.
type Filter func(path string) bool

type Watcher struct {
	fs       *fsnotify.Watcher
	handle   Handler
	filter   Filter
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithFilter(f Filter) Option {
	return func(w *Watcher) { w.filter = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New watches every directory in paths. File arguments watch their parent
// directory and only report changes to themselves.
func New(paths []string, handle Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		handle:   handle,
		filter:   func(string) bool { return true },
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		pending:  make(map[string]time.Time),
	}
	for _, o := range opts {
		o(w)
	}

	files := map[string]bool{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		dir := p
		if !info.IsDir() {
			files[filepath.Clean(p)] = true
			dir = filepath.Dir(p)
		}
		if err := w.addTree(dir, info.IsDir()); err != nil {
			fw.Close()
			return nil, err
		}
	}
	if len(files) > 0 {
		inner := w.filter
		w.filter = func(path string) bool {
			return files[filepath.Clean(path)] && inner(path)
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string, recursive bool) error {
	if !recursive {
		return w.fs.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	tick := w.debounce / 5
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.record(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.filter(ev.Name) {
		return
	}
	w.logger.Debug("change", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string
	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		w.handle(ctx, path)
	}
}
