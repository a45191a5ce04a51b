package compile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adnsv/go-utils/fs"
)

// EntryName is the conventionally named top-level document.
const EntryName = "main.tex"

// FindEntryDocument locates the document to compile inside dir. It prefers
// main.tex; otherwise it picks the first *.tex file found in the directory
// (non-recursive) and logs a notice. Returns ErrNoDocument when the
// directory holds no candidate.
func FindEntryDocument(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	entry := filepath.Join(dir, EntryName)
	if fs.FileExists(entry) {
		return entry, nil
	}
	// plain directory listing, not a glob: the directory path itself may
	// contain pattern metacharacters
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tex" {
			continue
		}
		slog.Warn("main.tex not found, using first .tex file", "file", e.Name())
		return filepath.Join(dir, e.Name()), nil
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoDocument)
}
