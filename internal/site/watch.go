package site

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/logging"
)

// watchDebounce coalesces the burst of events an editor produces on save.
const watchDebounce = 100 * time.Millisecond

// ChangeFunc receives a freshly loaded manifest. It is not called for
// manifests that fail to load; those are logged and skipped.
type ChangeFunc func(*Manifest)

// Watch reloads the manifest at path whenever it changes and passes the
// result to onChange. It watches the parent directory so editors that
// replace the file on save are handled. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *logging.Logger, onChange ChangeFunc) error {
	if path == "" {
		return errors.Wrap(errors.ErrInvalidInput, "watch: no manifest path")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("site.watch")

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	logger.Info("watching manifest", "path", abs)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerCh = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("manifest watcher error", "error", err)

		case <-timerCh:
			timerCh = nil
			m, err := Load(abs)
			if err != nil {
				logger.Warn("manifest reload failed", "error", err)
				continue
			}
			logger.Info("manifest reloaded", "assets", len(m.Assets), "sections", len(m.Sections))
			onChange(m)
		}
	}
}
