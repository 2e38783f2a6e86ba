package catalog

import (
	"context"
	"iruka/iruka/utils/logging"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a catalog file into a Catalog whenever the file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	catalog *Catalog
	// reloaded receives the outcome of each reload attempt; nil unless set by tests.
	reloaded chan error
}

func NewWatcher(path string, c *Catalog) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, path: abs, catalog: c}, nil
}

// Watch watches the file's directory, since editors often replace files by
// rename, and returns once the watch is registered.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go func() {
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
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				w.reload()
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logging.ErrorLogger.Error("catalog watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (w *Watcher) reload() {
	items, err := LoadFile(w.path)
	if err == nil {
		err = w.catalog.Replace(items)
	}
	if err != nil {
		logging.ErrorLogger.Error("catalog reload failed, keeping previous catalog",
			zap.String("path", w.path), zap.Error(err))
	} else {
		logging.AppLogger.Info("catalog reloaded", zap.String("path", w.path), zap.Int("items", len(items)))
	}
	if w.reloaded != nil {
		w.reloaded <- err
	}
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
