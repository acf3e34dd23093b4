package file

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// debounceInterval coalesces the burst of filesystem events most editors
// emit on save into a single reload.
const debounceInterval = 500 * time.Millisecond

// Watcher reloads the config store when its file changes on disk, so
// OAuth app credentials added in an editor are picked up without
// restarting the application.
type Watcher struct {
	store    *ConfigStore
	onReload func()

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher over the store's config file. onReload is
// invoked after each successful reload; nil is allowed.
func NewWatcher(store *ConfigStore, onReload func()) *Watcher {
	return &Watcher{store: store, onReload: onReload}
}

// Start begins watching. Watching the parent directory rather than the
// file itself survives the rename-on-save dance editors do.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(filepath.Dir(w.store.Path())); err != nil {
		fsWatcher.Close()
		return err
	}

	w.fsWatcher = fsWatcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.run(fsWatcher.Events, fsWatcher.Errors, w.stopCh)
	return nil
}

// Stop ends watching. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	if w.fsWatcher != nil {
		//nolint:errcheck // Nothing actionable on close failure.
		_ = w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.running = false
}

func (w *Watcher) run(events chan fsnotify.Event, errors chan error, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.store.Path() {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-errors:
			if !ok {
				return
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

// scheduleReload debounces rapid successive events into one reload.
func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(debounceInterval, func() {
		if err := w.store.Load(); err != nil {
			logger.Warn("config watcher: reload failed: %v", err)
			return
		}
		logger.Debug("config watcher: reloaded %s", w.store.Path())
		if w.onReload != nil {
			w.onReload()
		}
	})
}
