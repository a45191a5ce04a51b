package compile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Policy defaults. All of them can be overridden through the Runner fields
// (and, at the CLI level, through texmk.yaml).
const (
	DefaultEngine         = "pdflatex"
	DefaultBibTool        = "bibtex"
	DefaultEngineTimeout  = 60 * time.Second
	DefaultBibTimeout     = 30 * time.Second
	DefaultMaxDiagnostics = 5
)

// Runner drives the external typesetting toolchain over a single document.
type Runner struct {
	Engine         string
	BibTool        string
	EngineTimeout  time.Duration
	BibTimeout     time.Duration
	MaxDiagnostics int
	AuxSuffixes    []string

	exec commandRunner
}

func NewRunner() *Runner {
	return &Runner{
		Engine:         DefaultEngine,
		BibTool:        DefaultBibTool,
		EngineTimeout:  DefaultEngineTimeout,
		BibTimeout:     DefaultBibTimeout,
		MaxDiagnostics: DefaultMaxDiagnostics,
		AuxSuffixes:    DefaultAuxSuffixes,
		exec:           execRunner{},
	}
}

// Result describes a successful compilation.
type Result struct {
	PDF     string
	Size    int64
	Passes  int
	BibRan  bool
	BoxNote bool // Overfull/Underfull warnings present
}

// Run compiles doc. With a bibliography database present in the document's
// directory the sequence is engine, bibtool, engine, engine; otherwise a
// single engine pass. The process working directory is switched to the
// document's directory for the duration of the call and restored on every
// return path.
func (r *Runner) Run(ctx context.Context, doc string, cleanBefore, cleanAfter bool) (*Result, error) {
	doc, err := filepath.Abs(doc)
	if err != nil {
		return nil, err
	}
	if cleanBefore {
		if err := r.CleanAux(doc); err != nil {
			return nil, err
		}
	}

	slog.Info("compiling", "file", doc)

	restore, err := pushd(filepath.Dir(doc))
	if err != nil {
		return nil, err
	}
	defer restore()

	name := filepath.Base(doc)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var combined bytes.Buffer
	passes := 0
	engine := func(label string) error {
		res, err := r.exec.run(ctx, r.Engine, []string{"-interaction=nonstopmode", name}, r.EngineTimeout)
		if err != nil {
			return err
		}
		passes++
		combined.Write(res.combined())
		if res.exitCode != 0 {
			return &PassError{
				Pass:        label,
				ExitCode:    res.exitCode,
				Diagnostics: extractDiagnostics(res.combined(), r.MaxDiagnostics),
			}
		}
		return nil
	}

	if err := engine("initial pass"); err != nil {
		return nil, err
	}

	bib, err := hasBibDatabase(filepath.Dir(doc))
	if err != nil {
		return nil, err
	}
	if bib {
		slog.Debug("bibliography database found, running full sequence")
		res, err := r.exec.run(ctx, r.BibTool, []string{stem}, r.BibTimeout)
		if err != nil {
			return nil, err
		}
		combined.Write(res.combined())
		if res.exitCode != 0 {
			// bibtex exits non-zero when the document has no citations;
			// that is not a reason to stop
			slog.Warn("bibliography tool reported a problem, continuing",
				"tool", r.BibTool, "exit", res.exitCode)
		}
		if err := engine("citation pass"); err != nil {
			return nil, err
		}
		if err := engine("final pass"); err != nil {
			return nil, err
		}
	}

	pdf := stem + ".pdf"
	st, err := os.Stat(pdf)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s reported success but %s is missing", r.Engine, pdf)
		}
		return nil, fmt.Errorf("checking output: %w", err)
	}

	result := &Result{
		PDF:     filepath.Join(filepath.Dir(doc), pdf),
		Size:    st.Size(),
		Passes:  passes,
		BibRan:  bib,
		BoxNote: hasFormattingWarnings(combined.Bytes()),
	}
	slog.Info("compilation succeeded", "pdf", result.PDF, "bytes", result.Size, "passes", passes)
	if result.BoxNote {
		slog.Warn("formatting warnings present (Overfull/Underfull boxes)")
	}
	if cleanAfter {
		if err := r.CleanAux(doc); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// hasBibDatabase reports whether dir contains a bibliography database
// (non-recursive).
func hasBibDatabase(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".bib" {
			return true, nil
		}
	}
	return false, nil
}

// pushd switches the process working directory and returns the function
// that switches it back.
func pushd(dir string) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			slog.Error("restoring working directory", "dir", prev, "error", err)
		}
	}, nil
}
