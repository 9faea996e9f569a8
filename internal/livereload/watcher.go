// Package livereload watches a content directory and reports batches of
// changed files.
package livereload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/progvibe/internal/logging"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the sorted, de-duplicated relative paths of one batch.
type Handler func(changed []string)

// Watcher watches a directory tree for content changes.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	handler  Handler
	log      *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPatterns replaces DefaultPatterns.
func WithPatterns(patterns ...string) Option {
	return func(w *Watcher) { w.patterns = patterns }
}

// WithDebounce sets the quiet period before a batch is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a Watcher on root and adds every directory below it.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		root:     filepath.Clean(root),
		patterns: DefaultPatterns,
		debounce: DefaultDebounce,
		handler:  handler,
		log:      logging.Nop(),
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and all its subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && shouldExcludeDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// New directories must be watched too.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("watching new directory", "path", ev.Name, "error", err)
			}
			return
		}
	}
	if ev.Op == fsnotify.Chmod {
		return
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || !Matches(rel, w.patterns) {
		return
	}
	w.log.Debug("content file changed", "path", rel, "op", ev.Op.String())
	w.schedule(filepath.ToSlash(rel))
}

// schedule adds rel to the pending batch and restarts the quiet timer.
func (w *Watcher) schedule(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(changed)
	w.handler(changed)
}
