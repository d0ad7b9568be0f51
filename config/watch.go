package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/cplx/pkg/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	getenv   func(string) string
	onChange func(*Config)
	log      *logging.Leveled

	// Debounce is the quiet period before a reload. Set before Start.
	Debounce time.Duration

	mu      sync.Mutex
	reloads uint64
}

// NewWatcher creates a watcher for the config file at path. onChange is
// called with every successfully loaded and validated configuration; a
// file that fails to load is logged and the previous settings stay in use.
func NewWatcher(path string, getenv func(string) string, onChange func(*Config), log *logging.Leveled) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no config file to watch")
	}
	if log == nil {
		log = logging.Discard()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fsWatcher,
		path:     absPath,
		getenv:   getenv,
		onChange: onChange,
		log:      log,
		Debounce: DefaultDebounce,
	}, nil
}

// Start watches the config file's directory (editors often replace the
// file rather than write it in place) and processes events until ctx is
// done or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config dir %s: %w", dir, err)
	}
	w.log.Debug("watching config:", w.path)

	go w.eventLoop(ctx)
	return nil
}

// Watch is NewWatcher followed by Start.
func Watch(ctx context.Context, path string, getenv func(string) string, onChange func(*Config), log *logging.Leveled) (*Watcher, error) {
	w, err := NewWatcher(path, getenv, onChange, log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Restart the quiet period on every event
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error:", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.getenv)
	if err != nil {
		w.log.Warn("config reload failed, keeping previous settings:", err)
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.log.Info("config reloaded:", w.path)
	for _, warning := range Warnings(cfg) {
		w.log.Warn(warning)
	}
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
