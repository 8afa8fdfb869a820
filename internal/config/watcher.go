package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reelfeed/reelfeed/internal/logging"
)

// defaultDebounce absorbs the burst of events editors produce on save.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a config file when it changes and publishes the result.
// It watches the parent directory so that atomic rename-on-save is seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan *Config

	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(path string) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("config path cannot be empty")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err = fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		path:     path,
		debounce: defaultDebounce,
		watcher:  fw,
		updates:  make(chan *Config, 1),
		done:     make(chan struct{}),
	}, nil
}

// Updates delivers each successfully reloaded and validated Config. Only the
// newest pending config is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start runs the watch loop until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop ends the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) run(ctx context.Context) {
	logger := logging.FromContext(ctx)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Str("component", "config").Err(err).Msg("config watcher error")
		case <-pending:
			pending = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	logger := logging.FromContext(ctx)

	cfg, err := Load(w.path)
	if err == nil {
		cfg.ApplyEnv(os.LookupEnv)
		err = cfg.Validate()
	}
	if err != nil {
		logger.Warn().
			Str("component", "config").
			Str("path", w.path).
			Err(err).
			Msg("ignoring invalid config reload")
		return
	}

	// Replace any config the consumer has not picked up yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	logger.Debug().Str("component", "config").Str("path", w.path).Msg("config reloaded")
}
