package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a scenario file whenever it changes on disk.
type Watcher struct {
	logger  zerolog.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher creates a scenario file watcher.
func NewWatcher(logger zerolog.Logger) *Watcher {
	return &Watcher{
		logger: logger.With().Str("component", "scenario-watcher").Logger(),
	}
}

// Watch monitors the scenario file and invokes onChange with each
// successfully reloaded scenario. Editors often replace files by rename,
// so the parent directory is watched and events are filtered by name.
// Events are debounced to coalesce bursts of writes.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func(*Scenario) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = watcher

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.processEvents(ctx, path, onChange)

	w.logger.Info().Str("path", path).Msg("Watching scenario file")
	return nil
}

// processEvents filters file system events and triggers debounced reloads.
func (w *Watcher) processEvents(ctx context.Context, path string, onChange func(*Scenario) error) {
	var reloadTimer *time.Timer
	reloadDelay := 500 * time.Millisecond

	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Scenario file changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, func() {
				if err := w.reload(path, onChange); err != nil {
					w.logger.Error().Err(err).Msg("Failed to reload scenario")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// reload parses the scenario file and hands it to the callback.
func (w *Watcher) reload(path string, onChange func(*Scenario) error) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}

	if err := onChange(sc); err != nil {
		return fmt.Errorf("failed to apply reloaded scenario: %w", err)
	}

	w.logger.Info().Str("scenario", sc.Name).Msg("Scenario reloaded")
	return nil
}

// Stop stops watching for file changes.
func (w *Watcher) Stop() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
