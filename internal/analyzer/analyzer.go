// Package analyzer implements the heuristic per-file checks. Every
// analyzer is a pure line-oriented scan over file content; none of them
// parses the language grammar. Matches inside string and template
// literals are a known, accepted false-positive class.
package analyzer

import (
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

// RunSafe executes an analyzer while recovering from any internal fault.
// A faulting analyzer degrades to an empty-violation PASS for its
// category; it never aborts the file's other categories.
func RunSafe(a domain.FileAnalyzer, content string) (violations []domain.Violation) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
		}
	}()
	return a.Analyze(content)
}

// splitLines splits content into lines without dropping a trailing
// newline-terminated empty line from line numbering
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// stripLineComment removes a trailing // comment from a line. Heuristic:
// it does not honor // inside string literals.
func stripLineComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}
