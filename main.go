package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adnsv/texmk/compile"
	"github.com/adnsv/texmk/config"
	"github.com/adnsv/texmk/watch"
	cli "github.com/jawher/mow.cli"
)

func main() {
	dir := ""
	clean := false
	noCleanAfter := false
	watchMode := false
	notify := false
	verbose := false

	app := cli.App("texmk", "LaTeX compilation automator")
	app.Spec = "[-c] [--no-clean-after] [-w] [--notify] [-v] [DIR]"
	app.BoolOptPtr(&clean, "c clean", false, "clean auxiliary files before compiling")
	app.BoolOptPtr(&noCleanAfter, "no-clean-after", false, "keep auxiliary files after a successful compile")
	app.BoolOptPtr(&watchMode, "w watch", false, "recompile whenever the document changes")
	app.BoolOptPtr(&notify, "notify", false, "watch using filesystem events instead of polling (implies -w)")
	app.BoolOptPtr(&verbose, "v verbose", false, "enable debug logging")
	app.StringArgPtr(&dir, "DIR", ".", "directory containing the LaTeX document")

	app.Action = func() {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})))

		cfg, err := config.Load(dir)
		if err != nil {
			slog.Error("loading configuration", "error", err)
			cli.Exit(1)
		}

		doc, err := compile.FindEntryDocument(dir)
		if err != nil {
			if errors.Is(err, compile.ErrNoDocument) {
				slog.Error("no .tex document found", "dir", dir)
			} else {
				slog.Error("locating document", "error", err)
			}
			cli.Exit(1)
		}

		r := compile.NewRunner()
		cfg.Apply(r)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cleanAfter := !noCleanAfter

		if watchMode || notify {
			// compile once up front, then follow changes; a failed compile
			// keeps the watch alive so the next edit can fix it
			if _, err := r.Run(ctx, doc, clean, cleanAfter); err != nil {
				report(err)
			}
			rebuild := func(ctx context.Context) {
				if _, err := r.Run(ctx, doc, false, cleanAfter); err != nil {
					report(err)
				}
			}
			if notify {
				n := &watch.Notifier{Path: doc}
				err = n.Watch(ctx, rebuild)
			} else {
				p := &watch.Poller{Path: doc, Interval: time.Duration(cfg.PollInterval)}
				err = p.Watch(ctx, rebuild)
			}
			if err != nil {
				slog.Error("watch failed", "error", err)
				cli.Exit(1)
			}
			return
		}

		if _, err := r.Run(ctx, doc, clean, cleanAfter); err != nil {
			report(err)
			cli.Exit(1)
		}
	}

	app.Run(os.Args)
}

func report(err error) {
	var pe *compile.PassError
	switch {
	case errors.As(err, &pe):
		slog.Error("compilation failed", "pass", pe.Pass, "exit", pe.ExitCode)
		for _, line := range pe.Diagnostics {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	case errors.Is(err, compile.ErrToolMissing):
		slog.Error("required tool is not installed", "error", err)
	case errors.Is(err, compile.ErrTimeout):
		slog.Error("compilation timed out", "error", err)
	default:
		slog.Error("compilation failed", "error", err)
	}
}
