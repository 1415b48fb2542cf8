package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

var (
	frameworkImport = regexp.MustCompile(`(?m)^\s*import\s+.*from\s+['"](react|preact|vue|svelte)['"]`)
	domAccess       = regexp.MustCompile(`\b(document\.(getElementById|querySelector|querySelectorAll|createElement)|window\.(location\.href\s*=|scrollTo))\s*\(?`)
	innerHTMLWrite  = regexp.MustCompile(`\.innerHTML\s*=`)
)

// FrameworkAnalyzer flags direct DOM access inside framework component
// files, where the framework owns the rendered tree. Plain scripts that
// never import a UI framework are left alone.
type FrameworkAnalyzer struct{}

// NewFrameworkAnalyzer creates a framework-usage analyzer
func NewFrameworkAnalyzer() *FrameworkAnalyzer {
	return &FrameworkAnalyzer{}
}

// Name returns the category this analyzer contributes
func (a *FrameworkAnalyzer) Name() domain.Category {
	return domain.CategoryFramework
}

// Analyze flags imperative DOM manipulation in framework files
func (a *FrameworkAnalyzer) Analyze(content string) []domain.Violation {
	if !frameworkImport.MatchString(content) {
		return nil
	}

	var violations []domain.Violation
	for i, raw := range splitLines(content) {
		line := stripLineComment(raw)

		if m := domAccess.FindStringIndex(line); m != nil {
			call := strings.TrimRight(line[m[0]:m[1]], "(")
			violations = append(violations, domain.Violation{
				Line:    i + 1,
				Column:  m[0] + 1,
				Message: fmt.Sprintf("Direct DOM access '%s' inside a framework component", call),
				Advice:  "Use a ref or the framework's rendering primitives instead",
			})
		}
		if m := innerHTMLWrite.FindStringIndex(line); m != nil {
			violations = append(violations, domain.Violation{
				Line:    i + 1,
				Column:  m[0] + 1,
				Message: "innerHTML assignment bypasses the framework renderer",
				Advice:  "Render the markup through the framework instead of innerHTML",
			})
		}
	}
	return violations
}
