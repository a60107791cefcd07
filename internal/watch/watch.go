// Package watch re-runs resolution when launch inputs change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	tickInterval    = 100 * time.Millisecond
	defaultDebounce = 500 * time.Millisecond
)

// Handler runs after a burst of changes to the settled paths.
type Handler func(ctx context.Context, paths []string)

// Stats counts watcher activity.
type Stats struct {
	Events   uint64
	Triggers uint64
}

// Watcher watches individual files through their parent directories, so
// editor atomic-rename saves are still observed, and fires a debounced
// handler once changes settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	handler  Handler
	log      *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending map[string]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}

	events   atomic.Uint64
	triggers atomic.Uint64
}

// New creates a watcher. A non-positive debounce uses the default; a nil
// logger disables logging.
func New(debounce time.Duration, handler Handler, log *zap.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filesystem watcher")
	}
	return &Watcher{
		fsw:      fsw,
		handler:  handler,
		log:      log,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
	}, nil
}

// Add registers a file to watch. Its parent directory must exist.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	w.log.Debug("watching file", zap.String("path", abs))
	return nil
}

// Run blocks, dispatching debounced changes to the handler, until the
// context ends or Stop is called. The filesystem watcher is closed on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.firePending(ctx)
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Close releases the filesystem watcher for instances that never reach Run;
// Run closes it on return itself.
func (w *Watcher) Close() error {
	w.Stop()
	return w.fsw.Close()
}

// Stats returns activity counters.
func (w *Watcher) Stats() Stats {
	return Stats{Events: w.events.Load(), Triggers: w.triggers.Load()}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[name] {
		return
	}
	w.events.Add(1)
	w.pending[name] = time.Now()
	w.log.Debug("change detected",
		zap.String("path", name),
		zap.String("op", ev.Op.String()))
}

func (w *Watcher) firePending(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)
	w.triggers.Add(1)
	w.log.Info("changes settled", zap.Strings("paths", settled))
	w.handler(ctx, settled)
}
