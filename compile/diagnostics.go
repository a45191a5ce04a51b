package compile

import (
	"bufio"
	"bytes"
	"strings"
)

var errorMarkers = []string{"!", "Error", "Undefined"}

// extractDiagnostics picks lines from the engine output that look like
// errors, up to max lines.
func extractDiagnostics(output []byte, max int) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() && len(lines) < max {
		line := sc.Text()
		for _, m := range errorMarkers {
			if strings.Contains(line, m) {
				lines = append(lines, line)
				break
			}
		}
	}
	return lines
}

// hasFormattingWarnings reports whether the output mentions box warnings
// (Overfull/Underfull). These are cosmetic and never fail a compile.
func hasFormattingWarnings(output []byte) bool {
	return bytes.Contains(output, []byte("Overfull")) ||
		bytes.Contains(output, []byte("Underfull"))
}
