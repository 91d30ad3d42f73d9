package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path   string
	fs     *fsnotify.Watcher
	logger *log.Logger
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors which replace the file on save are picked up too.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{path: abs, fs: fw, logger: logger}, nil
}

// Run delivers every successfully reloaded config to onChange until ctx is
// cancelled or the watcher is closed. Invalid files are logged and skipped;
// the previous config stays in effect. Difficulty presets are not applied.
func (w *Watcher) Run(ctx context.Context, onChange func(SnakeConfig)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := loadFile(w.path)
			if err != nil {
				w.logger.Warn("Config reload failed", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("Config reloaded", "path", w.path,
				"grid", fmt.Sprintf("%dx%d", cfg.Grid.Width, cfg.Grid.Height), "base_ms", cfg.Speed.BaseMS)
			onChange(cfg)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
