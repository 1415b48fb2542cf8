package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

var (
	namedFunctionHeader = regexp.MustCompile(`^\s*(export\s+)?(default\s+)?(async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*(<[^>]*>)?\s*\(`)
	constClosureHeader  = regexp.MustCompile(`^\s*(export\s+)?const\s+([A-Za-z_$][\w$]*)(\s*:\s*[^=]+)?\s*=\s*(async\s+)?(\([^)]*$|\()`)
	wrappedClosure      = regexp.MustCompile(`^\s*(export\s+)?const\s+([A-Za-z_$][\w$]*)\s*=\s*(useCallback|useMemo|memo|forwardRef|debounce|throttle)\s*\(`)
	accessorHeader      = regexp.MustCompile(`^\s*(get|set)\s+[A-Za-z_$][\w$]*\s*\(`)
	returnTypeAfterArgs = regexp.MustCompile(`^\s*:\s*\S`)
)

// AnnotationAnalyzer flags function-like constructs whose return type is
// not explicitly annotated. It extracts headers line by line, balancing
// parentheses to find the header/body boundary; it is a heuristic, not a
// parser.
type AnnotationAnalyzer struct{}

// NewAnnotationAnalyzer creates a missing-return-type analyzer
func NewAnnotationAnalyzer() *AnnotationAnalyzer {
	return &AnnotationAnalyzer{}
}

// Name returns the category this analyzer contributes
func (a *AnnotationAnalyzer) Name() domain.Category {
	return domain.CategoryAnnotations
}

// Analyze reports every named function-like construct with no explicit
// return type, skipping constructors, accessors and void-returning forms
func (a *AnnotationAnalyzer) Analyze(content string) []domain.Violation {
	var violations []domain.Violation
	lines := splitLines(content)

	for i := 0; i < len(lines); i++ {
		line := stripLineComment(lines[i])

		name, headerStart := a.matchHeader(line)
		if name == "" || name == "constructor" || accessorHeader.MatchString(line) {
			continue
		}

		rest, endIdx, ok := a.scanPastArgs(lines, i, headerStart)
		if !ok {
			continue
		}

		if returnTypeAfterArgs.MatchString(rest) {
			continue
		}

		if !a.returnsValue(lines, endIdx) {
			continue
		}

		violations = append(violations, domain.Violation{
			Line:    i + 1,
			Symbol:  name,
			Message: fmt.Sprintf("Function '%s' has no explicit return type", name),
			Advice:  "Annotate the return type so the contract is visible at the signature",
		})
	}

	return violations
}

// matchHeader recognizes the supported function-like headers and returns
// the bound name plus the offset of the opening parenthesis
func (a *AnnotationAnalyzer) matchHeader(line string) (string, int) {
	if m := namedFunctionHeader.FindStringSubmatchIndex(line); m != nil {
		name := line[m[8]:m[9]]
		return name, strings.Index(line[m[0]:], "(") + m[0]
	}
	if m := wrappedClosure.FindStringSubmatchIndex(line); m != nil {
		// The match ends just past the wrapper's opening parenthesis.
		return line[m[4]:m[5]], m[1] - 1
	}
	if m := constClosureHeader.FindStringSubmatch(line); m != nil {
		// A const binding with its own type annotation already carries
		// the signature; only unannotated bindings are candidates.
		if strings.TrimSpace(m[3]) != "" {
			return "", 0
		}
		return m[2], strings.Index(line, "(")
	}
	return "", 0
}

// scanPastArgs balances parentheses from the header's opening paren and
// returns the text following the argument list, plus the line where the
// list closed
func (a *AnnotationAnalyzer) scanPastArgs(lines []string, startLine, openIdx int) (string, int, bool) {
	depth := 0
	for i := startLine; i < len(lines) && i < startLine+40; i++ {
		line := stripLineComment(lines[i])
		from := 0
		if i == startLine {
			from = openIdx
		}
		for j := from; j < len(line); j++ {
			switch line[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return line[j+1:], i, true
				}
			}
		}
	}
	return "", 0, false
}

// returnsValue reports whether the body starting at the header line
// contains a value-bearing return; bodies without one are treated as
// void-returning and skipped
func (a *AnnotationAnalyzer) returnsValue(lines []string, headerEnd int) bool {
	rest := stripLineComment(lines[headerEnd])
	// Expression-bodied arrows always produce a value.
	if idx := strings.Index(rest, "=>"); idx >= 0 && !strings.Contains(rest[idx:], "{") {
		return true
	}

	depth := 0
	opened := false
	for i := headerEnd; i < len(lines) && i < headerEnd+200; i++ {
		line := stripLineComment(lines[i])
		if returnWithValue.MatchString(line) {
			return true
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			opened = true
		}
		if opened && depth <= 0 {
			return false
		}
	}
	return false
}
