package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"torhmi/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file whenever it is written and publishes the
// result on Updates. Invalid files are logged and skipped.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	updates  chan *Config
	debounce time.Duration
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the config file at path. The parent
// directory is watched so editors that replace the file are handled.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     filepath.Clean(path),
		updates:  make(chan *Config, 1),
		debounce: 200 * time.Millisecond,
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates delivers each successfully reloaded config. Only the newest
// pending config is kept. The channel is closed when the watch loop exits.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start begins watching. It returns immediately; the watch loop ends when
// ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Config("config watcher: watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Wait blocks until the watch loop has exited and the watcher is closed.
func (w *Watcher) Wait() {
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.updates)
	defer w.watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logging.ConfigDebug("config watcher: context cancelled")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors often write in several steps; reload once they settle
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ConfigWarn("config watcher error: %v", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.ConfigWarn("config reload failed: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.ConfigWarn("config reload rejected: %v", err)
		return
	}

	// Drop a stale, unconsumed update in favor of the new one
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	logging.Config("config reloaded from %s", w.path)
}
