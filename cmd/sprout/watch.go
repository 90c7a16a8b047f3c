package main

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/nexusagri/sprout"
	"go.uber.org/zap"
)

// configWatcher reloads a config file when it changes on disk and delivers
// each valid result on Reloads. Invalid files are logged and skipped so the
// running preloader keeps its last good config.
type configWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger
	reloads  chan sprout.Config

	mu    sync.Mutex
	timer *time.Timer
}

// newConfigWatcher watches the directory holding path. Editors often replace
// files instead of writing them in place, which a watch on the file itself
// would miss.
func newConfigWatcher(path string, log *zap.Logger) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watch %s", path)
	}
	return &configWatcher{
		path:     abs,
		watcher:  w,
		debounce: 250 * time.Millisecond,
		log:      log,
		reloads:  make(chan sprout.Config, 1),
	}, nil
}

// Reloads delivers freshly loaded configs.
func (cw *configWatcher) Reloads() <-chan sprout.Config { return cw.reloads }

// Run watches until ctx is cancelled or the watcher is closed.
func (cw *configWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				cw.log.Debug("config changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
				cw.scheduleReload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// scheduleReload debounces bursts of events into one reload.
func (cw *configWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.reload)
}

func (cw *configWatcher) reload() {
	cfg, err := sprout.LoadConfig(cw.path)
	if err != nil {
		cw.log.Warn("config reload failed, keeping current config", zap.Error(err))
		return
	}
	cw.log.Info("config reloaded", zap.String("path", cw.path))

	// Keep only the newest config if the consumer is behind.
	cw.mu.Lock()
	defer cw.mu.Unlock()
	select {
	case <-cw.reloads:
	default:
	}
	cw.reloads <- cfg
}

// Close stops watching.
func (cw *configWatcher) Close() error {
	cw.mu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mu.Unlock()
	return cw.watcher.Close()
}
