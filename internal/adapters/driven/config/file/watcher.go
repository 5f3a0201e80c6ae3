package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/caselib/internal/logger"
)

// Watch reloads the config file whenever it changes and reports each
// successfully parsed version to onReload. It blocks until the context
// is cancelled. Parse failures keep the previous configuration.
//
// The containing directory is watched rather than the file itself, so
// editors that replace the file atomically are still observed.
func Watch(ctx context.Context, path string, onReload func(*Config)) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("Config reload failed: %v", err)
				continue
			}
			logger.Info("Config reloaded from %s", path)
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error: %v", err)
		}
	}
}
