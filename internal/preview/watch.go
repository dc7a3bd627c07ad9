package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"kidsnews/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls rebuild whenever a file under dir changes, at most once per
// debounce window. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, debounce time.Duration, log *zap.Logger, rebuild func() error) error {
	log = logging.Get(log, logging.CategoryRender)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify is not recursive; templates/activities needs its own watch.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Info("watching templates", zap.String("dir", dir))

	ticker := time.NewTicker(debounce / 3)
	defer ticker.Stop()

	var (
		pending bool
		last    time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("template changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			pending = true
			last = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-ticker.C:
			if !pending || time.Since(last) < debounce {
				continue
			}
			pending = false
			if err := rebuild(); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}
