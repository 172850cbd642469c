package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeonechain/governance/pkg/telemetry"
)

// reloadDebounce coalesces the burst of filesystem events editors emit on
// save into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk and hands
// the fresh config to a callback. governd serve uses it to apply log-level
// changes without a restart; settings that require a restart (store backend,
// listen addresses) are the callback's problem to ignore.
type Watcher struct {
	path    string
	logger  *telemetry.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, logger *telemetry.Logger) *Watcher {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	return &Watcher{
		path:   path,
		logger: logger.NewComponentLogger("config-watcher"),
	}
}

// Watch starts watching the file and invokes reloadFn with each successfully
// reloaded configuration. It returns once the watch is established; events
// are processed in the background until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, reloadFn func(*Config) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = fw

	if err := fw.Add(w.path); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	go w.processEvents(ctx, reloadFn)

	w.logger.WithField("path", w.path).Info("Watching configuration file")
	return nil
}

// processEvents processes filesystem events and triggers debounced reloads.
func (w *Watcher) processEvents(ctx context.Context, reloadFn func(*Config) error) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.WithFields(map[string]interface{}{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Configuration file changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDebounce, func() {
				if err := w.reload(reloadFn); err != nil {
					w.logger.WithError(err).Error("Failed to reload configuration")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Watcher error")
		}
	}
}

// reload re-reads the file and applies it through the callback. A config
// that fails to parse or validate is dropped and the previous one stays in
// effect.
func (w *Watcher) reload(reloadFn func(*Config) error) error {
	cfg, err := Load(w.path)
	if err != nil {
		return err
	}
	if err := reloadFn(cfg); err != nil {
		return fmt.Errorf("failed to apply reloaded config: %w", err)
	}
	w.logger.Info("Configuration reloaded")
	return nil
}

// Stop stops watching for file changes.
func (w *Watcher) Stop() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
