package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/osse101/nightfall/internal/logger"
)

// DefaultReloadDelay debounces bursts of write events from editors.
const DefaultReloadDelay = 500 * time.Millisecond

// ApplyFunc receives a freshly built catalog after the file changes.
type ApplyFunc func(ctx context.Context, c *Catalog) error

// Watcher rebuilds the catalog whenever its file changes
type Watcher struct {
	loader Loader
	path   string
	apply  ApplyFunc
	delay  time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(loader Loader, path string, apply ApplyFunc) *Watcher {
	return &Watcher{
		loader: loader,
		path:   path,
		apply:  apply,
		delay:  DefaultReloadDelay,
	}
}

// Start watches the directory holding the catalog file so atomic renames are seen.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	go w.processEvents(ctx, fw)

	logger.FromContext(ctx).Info(LogMsgWatchingCatalog, "path", w.path)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, fw *fsnotify.Watcher) {
	log := logger.FromContext(ctx)
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug(LogMsgCatalogChanged, "file", ev.Name, "op", ev.Op.String())
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Error(LogMsgWatcherError, "error", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if err := w.Reload(ctx); err != nil {
			logger.FromContext(ctx).Warn(LogMsgCatalogReloadFailed, "path", w.path, "error", err)
		}
	})
}

// Reload loads the file and hands the result to the apply callback.
func (w *Watcher) Reload(ctx context.Context) error {
	c, err := w.loader.LoadCatalog(ctx, w.path)
	if err != nil {
		return err
	}
	return w.apply(ctx, c)
}

// Stop closes the underlying watcher and cancels a pending reload.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	if err == nil {
		logger.FromContext(context.Background()).Info(LogMsgWatcherStopped, "path", w.path)
	}
	return err
}
