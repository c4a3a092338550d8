package configwatcher

import (
	"path/filepath"
	"study_backend/internal/config"
	"study_backend/pkg/logger"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg interface{})

const debounce = time.Second

// WatchConfig re-reads the config file on change and hands the fresh
// copy to the reloader. Watches the parent directory because most
// editors replace the file instead of writing it in place.
func WatchConfig(configPath string, _ interface{}, reloader ConfigReloader) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Error("Config watcher unavailable", zap.Error(err))
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		logger.Log.Error("Config path is not resolvable", zap.String("path", configPath), zap.Error(err))
		return
	}
	dir := filepath.Dir(absPath)

	if err := watcher.Add(dir); err != nil {
		logger.Log.Error("Cannot watch config directory", zap.String("dir", dir), zap.Error(err))
		return
	}

	var mu sync.Mutex
	var pending *time.Timer
	reload := func() {
		fresh, err := config.LoadConfig(dir)
		if err != nil {
			logger.Log.Error("Config reload failed", zap.Error(err))
			return
		}
		logger.Log.Info("Config reloaded", zap.String("path", absPath))
		reloader(fresh)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// coalesce editor write bursts
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
