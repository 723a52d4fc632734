package oauth

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"swit-mcp/pkg/logging"
)

const (
	// DefaultDebounceInterval is the time to wait after the last change to
	// the token file before reloading.
	DefaultDebounceInterval = 500 * time.Millisecond

	// DefaultPollInterval is used when fsnotify is not available.
	DefaultPollInterval = 5 * time.Second
)

// TokenWatcher reloads a Coordinator when the token file changes on disk,
// for example after `swit-mcp auth login` or `auth logout` ran in another
// process. It watches the containing directory so atomic renames are seen,
// and falls back to polling the file's modification time when fsnotify is
// unavailable.
type TokenWatcher struct {
	coordinator  *Coordinator
	path         string
	debounce     time.Duration
	pollInterval time.Duration

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewTokenWatcher creates a watcher for the coordinator's token file.
func NewTokenWatcher(coordinator *Coordinator) *TokenWatcher {
	return &TokenWatcher{
		coordinator:  coordinator,
		path:         coordinator.Store().Path(),
		debounce:     DefaultDebounceInterval,
		pollInterval: DefaultPollInterval,
	}
}

// Run watches until ctx is cancelled. It always returns nil: watch setup
// failures degrade to polling.
func (w *TokenWatcher) Run(ctx context.Context) error {
	defer w.stopTimer()

	dir := filepath.Dir(w.path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("TokenWatcher", "fsnotify not available, falling back to polling: %v", err)
		w.poll(ctx)
		return nil
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		logging.Warn("TokenWatcher", "Failed to watch directory %s, falling back to polling: %v", dir, err)
		w.poll(ctx)
		return nil
	}

	logging.Debug("TokenWatcher", "Watching %s for token changes", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("TokenWatcher", err, "fsnotify error")
		}
	}
}

func (w *TokenWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logging.Debug("TokenWatcher", "Token file changed: %s", event.Op)
	w.reloadDebounced()
}

// reloadDebounced collapses bursts of events (temp file write plus rename)
// into one reload.
func (w *TokenWatcher) reloadDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.coordinator.Reload)
}

func (w *TokenWatcher) stopTimer() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

func (w *TokenWatcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	lastMod, lastExists := w.stat()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mod, exists := w.stat()
			if exists != lastExists || !mod.Equal(lastMod) {
				logging.Debug("TokenWatcher", "Token file change detected via polling")
				w.coordinator.Reload()
			}
			lastMod, lastExists = mod, exists
		}
	}
}

func (w *TokenWatcher) stat() (time.Time, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
