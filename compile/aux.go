package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAuxSuffixes lists the byproduct files the typesetting and
// bibliography tools leave next to the document, addressed as
// <stem><suffix>.
var DefaultAuxSuffixes = []string{
	".aux", ".log", ".out", ".toc",
	".fdb_latexmk", ".fls", ".synctex.gz",
	".bbl", ".blg",
}

// CleanAux removes auxiliary files derived from the document's base name.
// Absent files are skipped; a removal failure (permissions) propagates,
// since it signals an environment problem.
func (r *Runner) CleanAux(doc string) error {
	stem := strings.TrimSuffix(doc, filepath.Ext(doc))
	for _, suffix := range r.AuxSuffixes {
		fn := stem + suffix
		err := os.Remove(fn)
		if err == nil {
			slog.Debug("removed", "file", filepath.Base(fn))
			continue
		}
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("removing %s: %w", fn, err)
	}
	return nil
}
