package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gerunddev/tomzim/internal/logger"
)

// RunFunc performs one export pass
type RunFunc func(ctx context.Context) error

// Watch runs fn once, then again each time a note in dir is created,
// written, removed or renamed. Bursts of events closer together than
// debounce trigger a single run. Watch returns nil when ctx is cancelled
//
// Errors from fn are logged and do not stop the watcher
func Watch(ctx context.Context, dir, ext string, debounce time.Duration, log *logger.Logger, fn RunFunc) error {
	if log == nil {
		log = logger.Discard()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Tomboy keeps revisions in subdirectories, only the top level is watched
	if err := w.Add(dir); err != nil {
		return err
	}

	log.Info("watcher started", "dir", dir, "debounce", debounce)

	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			log.Error("export failed", "error", err)
		}
	}
	run()

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info("watcher stopped")
			return nil

		case <-fire:
			run()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, ext) {
				continue
			}
			log.Debug("note changed", "path", ev.Name, "op", ev.Op.String())
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", watchErr)
		}
	}
}

// relevant reports whether ev touches a note file in a way that can
// change the notebook
func relevant(ev fsnotify.Event, ext string) bool {
	if filepath.Ext(ev.Name) != ext {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
