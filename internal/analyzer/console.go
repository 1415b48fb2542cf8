package analyzer

import (
	"fmt"
	"regexp"

	"github.com/ludo-technologies/tsreview/domain"
)

var consolePattern = regexp.MustCompile(`\bconsole\.(log|error|warn|info|debug|trace|table|dir|group|groupEnd)\s*\(`)

// ConsoleAnalyzer flags direct console calls, which bypass the
// application's logging layer
type ConsoleAnalyzer struct{}

// NewConsoleAnalyzer creates a console misuse analyzer
func NewConsoleAnalyzer() *ConsoleAnalyzer {
	return &ConsoleAnalyzer{}
}

// Name returns the category this analyzer contributes
func (a *ConsoleAnalyzer) Name() domain.Category {
	return domain.CategoryConsole
}

// Analyze flags every console.<method>( call outside line comments
func (a *ConsoleAnalyzer) Analyze(content string) []domain.Violation {
	var violations []domain.Violation

	for i, line := range splitLines(content) {
		code := stripLineComment(line)
		for _, m := range consolePattern.FindAllStringSubmatchIndex(code, -1) {
			method := code[m[2]:m[3]]
			violations = append(violations, domain.Violation{
				Line:    i + 1,
				Column:  m[0] + 1,
				Message: fmt.Sprintf("Direct console.%s call", method),
				Advice:  "Route output through the application logger instead of console",
			})
		}
	}

	return violations
}
