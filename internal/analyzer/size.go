package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/tsreview/domain"
)

// DefaultMaxFileLines is the size threshold used when none is configured
const DefaultMaxFileLines = 500

// SizeAnalyzer flags files that exceed the configured line budget
type SizeAnalyzer struct {
	maxLines int
}

// NewSizeAnalyzer creates a size analyzer with the given line budget.
// A non-positive budget falls back to the default.
func NewSizeAnalyzer(maxLines int) *SizeAnalyzer {
	if maxLines <= 0 {
		maxLines = DefaultMaxFileLines
	}
	return &SizeAnalyzer{maxLines: maxLines}
}

// Name returns the category this analyzer contributes
func (a *SizeAnalyzer) Name() domain.Category {
	return domain.CategorySize
}

// Analyze reports a single violation when the file exceeds the budget
func (a *SizeAnalyzer) Analyze(content string) []domain.Violation {
	lines := len(splitLines(content))
	if lines <= a.maxLines {
		return nil
	}
	return []domain.Violation{{
		Line:    a.maxLines + 1,
		Message: fmt.Sprintf("File has %d lines, exceeding the %d line limit", lines, a.maxLines),
		Advice:  "Split the file into smaller, focused modules",
	}}
}
