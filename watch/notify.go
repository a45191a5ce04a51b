package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Notifier reacts to filesystem events instead of polling. It watches the
// document's directory (more reliable than watching the file itself, which
// editors replace on save) and debounces bursts of write events into a
// single rebuild.
type Notifier struct {
	Path     string
	Debounce time.Duration
}

// Watch blocks until ctx is cancelled.
func (n *Notifier) Watch(ctx context.Context, rebuild RebuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(n.Path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	name := filepath.Base(abs)

	debounce := n.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	slog.Info("watching for changes", "file", abs)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// a fresh timer per event: resetting one that already fired
			// would leave a stale tick in the old channel and cut the
			// burst short
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			pending = timer.C
		case <-pending:
			timer = nil
			pending = nil
			slog.Info("change detected, recompiling", "file", abs)
			rebuild(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}
