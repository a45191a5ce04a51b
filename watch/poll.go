// Package watch triggers recompilation when the document changes, either
// by polling the modification time or through filesystem events.
package watch

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// RebuildFunc is invoked once per observed change.
type RebuildFunc func(ctx context.Context)

// Poller re-reads the document's modification time on a fixed interval
// and fires the rebuild callback whenever it increases.
type Poller struct {
	Path     string
	Interval time.Duration
}

// Watch blocks until ctx is cancelled.
func (p *Poller) Watch(ctx context.Context, rebuild RebuildFunc) error {
	st, err := os.Stat(p.Path)
	if err != nil {
		return err
	}
	last := st.ModTime()

	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	slog.Info("watching for changes", "file", p.Path, "interval", interval)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case <-t.C:
			st, err := os.Stat(p.Path)
			if err != nil {
				// the editor may be mid-save; try again next tick
				slog.Debug("stat failed", "file", p.Path, "error", err)
				continue
			}
			if mod := st.ModTime(); mod.After(last) {
				slog.Info("change detected, recompiling", "file", p.Path)
				rebuild(ctx)
				last = mod
			}
		}
	}
}
