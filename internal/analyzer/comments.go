package analyzer

import (
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

// DefaultAllowedCommentMarkers lists comment prefixes that are always
// permitted: tooling directives and triple-slash references.
var DefaultAllowedCommentMarkers = []string{
	"eslint-disable",
	"eslint-enable",
	"@ts-",
	"<reference",
	"#!",
	"prettier-ignore",
}

// CommentAnalyzer enforces the comment policy: source comments are
// disallowed except for recognized directive markers. Comment spans are
// classified by simple state tracking (enter on an opening token, stay
// until the closing token), not by parsing the grammar.
type CommentAnalyzer struct {
	allowedMarkers []string
}

// NewCommentAnalyzer creates a comment analyzer. Nil markers use the
// default directive allow-list.
func NewCommentAnalyzer(allowedMarkers []string) *CommentAnalyzer {
	if allowedMarkers == nil {
		allowedMarkers = DefaultAllowedCommentMarkers
	}
	return &CommentAnalyzer{allowedMarkers: allowedMarkers}
}

// Name returns the category this analyzer contributes
func (a *CommentAnalyzer) Name() domain.Category {
	return domain.CategoryComments
}

// Analyze flags every comment line that is not an allowed directive
func (a *CommentAnalyzer) Analyze(content string) []domain.Violation {
	var violations []domain.Violation
	inBlock := false

	for i, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)

		if inBlock {
			violations = a.flag(violations, i+1, trimmed)
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "/*"):
			violations = a.flag(violations, i+1, trimmed)
			if !strings.Contains(trimmed[2:], "*/") {
				inBlock = true
			}
		case strings.HasPrefix(trimmed, "//"):
			violations = a.flag(violations, i+1, trimmed)
		default:
			// Trailing comments after code
			if idx := strings.Index(line, "//"); idx >= 0 {
				violations = a.flag(violations, i+1, strings.TrimSpace(line[idx:]))
			}
		}
	}

	return violations
}

func (a *CommentAnalyzer) flag(violations []domain.Violation, line int, text string) []domain.Violation {
	if a.isAllowed(text) {
		return violations
	}
	return append(violations, domain.Violation{
		Line:    line,
		Message: "Comment found; code should be self-documenting",
		Advice:  "Remove the comment or extract the logic into a well-named function",
	})
}

func (a *CommentAnalyzer) isAllowed(text string) bool {
	stripped := strings.TrimLeft(text, "/* \t")
	for _, marker := range a.allowedMarkers {
		if strings.HasPrefix(stripped, marker) || strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}
