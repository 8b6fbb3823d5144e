// Package watcher re-renders the tree when the working tree changes.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/CageChen/treeview/internal/fs"
	"github.com/CageChen/treeview/internal/walker"
)

// DefaultDebounce coalesces bursts of events into a single refresh.
const DefaultDebounce = 200 * time.Millisecond

// Callback is called once per coalesced burst of changes.
type Callback func() error

// Watcher monitors every directory the walk descends into.
type Watcher struct {
	watcher   *fsnotify.Watcher
	local     *fs.LocalFS
	walk      *walker.Walker
	logger    zerolog.Logger
	debounce  time.Duration
	callbacks []Callback
	mu        sync.RWMutex
}

// New creates a watcher for the directories walk visits in local.
func New(local *fs.LocalFS, walk *walker.Walker, logger zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		local:    local,
		walk:     walk,
		logger:   logger,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period before callbacks run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnChange registers a callback for change bursts.
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start adds every directory the walk would descend into.
func (w *Watcher) Start() error {
	w.sync()
	return nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run processes events until ctx is cancelled or a callback fails.
func (w *Watcher) Run(ctx context.Context) error {
	var refresh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				refresh = time.After(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		case <-refresh:
			refresh = nil
			w.sync()
			if err := w.notify(); err != nil {
				return err
			}
		}
	}
}

// sync watches directories that appeared since the last pass. Removed
// directories drop out of the fsnotify watch list on their own.
func (w *Watcher) sync() {
	for dir := range w.walk.Dirs() {
		path := w.local.Abs(dir)
		if err := w.watcher.Add(path); err != nil {
			w.logger.Debug().Err(err).Str("path", path).Msg("cannot watch directory")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return w.walk.Visible(filepath.Base(event.Name), 1)
}

func (w *Watcher) notify() error {
	w.mu.RLock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(); err != nil {
			return err
		}
	}
	return nil
}
