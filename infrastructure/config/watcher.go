package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes and applies the settings
// that can change at runtime. Only the log level is applied today; everything
// else needs a restart. LOG_LEVEL in the environment still wins over the file.
type Watcher struct {
	path    string
	level   zap.AtomicLevel
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches path and its directory, so editors that save by rename
// are noticed too
func NewWatcher(path string, level zap.AtomicLevel, logger *zap.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    path,
		level:   level,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching in the background
func (w *Watcher) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop ends the watch loop and releases the file watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		if w.started.Load() {
			<-w.done
		}
	})
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				if err := w.Reload(); err != nil {
					w.logger.Error("Failed to reload configuration", zap.Error(err))
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Configuration watcher error", zap.Error(err))
		}
	}
}

// Reload reads the file again and applies its log level. An invalid file
// leaves the running settings untouched.
func (w *Watcher) Reload() error {
	cfg := defaultConfig()
	if err := cfg.loadFile(w.path); err != nil {
		return err
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return nil
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q in %s: %w", cfg.LogLevel, w.path, err)
	}
	if level == w.level.Level() {
		return nil
	}

	previous := w.level.Level()
	w.level.SetLevel(level)
	w.logger.Info("Log level changed",
		zap.String("from", previous.String()),
		zap.String("to", level.String()),
	)
	return nil
}
