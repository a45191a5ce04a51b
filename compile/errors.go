package compile

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the orchestrator.
var (
	ErrNoDocument  = errors.New("no .tex document found")
	ErrToolMissing = errors.New("tool not found in PATH")
	ErrTimeout     = errors.New("tool invocation timed out")
)

// PassError reports a typesetting pass that exited with a non-zero status,
// along with diagnostic lines extracted from the pass output.
type PassError struct {
	Pass        string
	ExitCode    int
	Diagnostics []string
}

func (e *PassError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%s failed with exit status %d", e.Pass, e.ExitCode)
	}
	return fmt.Sprintf("%s failed with exit status %d:\n  %s",
		e.Pass, e.ExitCode, strings.Join(e.Diagnostics, "\n  "))
}
