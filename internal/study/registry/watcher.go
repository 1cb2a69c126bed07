package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/fsnotify/fsnotify"
)

// Watch rebuilds the registry when files in the documents directory change.
// Bursts of events collapse into one rebuild after WatchDebounce. It blocks
// until ctx is done.
func (r *Registry) Watch(ctx context.Context) error {
	return r.watch(ctx, config.WatchDebounce)
}

func (r *Registry) watch(ctx context.Context, debounce time.Duration) error {
	log := logger.With("dir", r.source.Dir())

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(r.source.Dir()); err != nil {
		return fmt.Errorf("watching %s: %w", r.source.Dir(), err)
	}
	log.Info("watching documents directory")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopped watching")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Debug("document change", "event", event.String())
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)

		case <-timer.C:
			if err := r.Rebuild(ctx); err != nil {
				log.Error("rebuild after change failed", "error", err)
			}
		}
	}
}
