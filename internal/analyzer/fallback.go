package analyzer

import (
	"regexp"
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

// Fallback-data patterns. Each pattern is a deliberately cheap text
// heuristic; the exemption rules below suppress the ambiguous cases in
// favor of fewer false positives.
var (
	bareNullReturn  = regexp.MustCompile(`\breturn\s+(null|undefined)\s*;?\s*$`)
	orFallback      = regexp.MustCompile(`\|\|\s*(\[\s*\]|\{\s*\}|''|""|` + "``" + `|0\b|null\b|undefined\b|'[^']*'|"[^"]*")`)
	optChainOnLine  = regexp.MustCompile(`\?\.`)
	nullishFallback = regexp.MustCompile(`\?\?\s*(\[\s*\]|\{\s*\}|''|""|` + "``" + `|0\b|'[^']*'|"[^"]*")`)
	ternaryFallback = regexp.MustCompile(`\?\s*[^:]+:\s*(\[\s*\]|\{\s*\}|''|""|null\b|undefined\b)`)
	catchOpen       = regexp.MustCompile(`\bcatch\s*(\([^)]*\))?\s*\{`)
	returnWithValue = regexp.MustCompile(`\breturn\s+[^;\s]`)

	nullableSignature = regexp.MustCompile(`\)\s*:\s*[^={]*\b(null|undefined)\b`)
	booleanOperand    = regexp.MustCompile(`(\bis[A-Z]\w*|\bhas[A-Z]\w*|\bcan[A-Z]\w*|\bshould[A-Z]\w*|[=!]==?|[<>]=?|^\s*!|\|\|\s*!)`)
	notFoundContext   = regexp.MustCompile(`(?i)(cache|expired|not[ _-]?found|missing|stale)`)
)

// FallbackAnalyzer flags fallback-data anti-patterns: code paths that
// silently substitute default values instead of surfacing the absence
// of real data.
type FallbackAnalyzer struct{}

// NewFallbackAnalyzer creates a fallback-data analyzer
func NewFallbackAnalyzer() *FallbackAnalyzer {
	return &FallbackAnalyzer{}
}

// Name returns the category this analyzer contributes
func (a *FallbackAnalyzer) Name() domain.Category {
	return domain.CategoryFallback
}

// Analyze scans for the five fallback patterns, applying the exemption
// heuristics for recognized safe idioms
func (a *FallbackAnalyzer) Analyze(content string) []domain.Violation {
	var violations []domain.Violation
	lines := splitLines(content)

	nullableReturnScope := false
	catchDepth := 0
	braceBalance := 0

	for i, raw := range lines {
		line := stripLineComment(raw)
		trimmed := strings.TrimSpace(line)

		// Track the most recent function header's return type so that
		// typed-nullable signatures exempt their own null returns.
		if strings.Contains(line, "function") || strings.Contains(line, "=>") || strings.Contains(line, "(") {
			if nullableSignature.MatchString(line) {
				nullableReturnScope = true
			} else if strings.Contains(line, "):") || strings.Contains(line, ") :") {
				nullableReturnScope = false
			}
		}

		// Track catch blocks by brace balance from the opening line.
		if catchDepth > 0 {
			braceBalance += strings.Count(line, "{") - strings.Count(line, "}")
			if returnWithValue.MatchString(line) && !bareNullReturn.MatchString(line) {
				violations = append(violations, domain.Violation{
					Line:    i + 1,
					Rule:    "catch-swallow",
					Message: "Catch block swallows the error and returns a value",
					Advice:  "Rethrow or propagate the error instead of returning fallback data",
				})
			}
			if braceBalance <= 0 {
				catchDepth = 0
			}
		}
		if catchOpen.MatchString(line) {
			catchDepth = 1
			braceBalance = 1 + strings.Count(line, "{") - strings.Count(line, "}") - 1
			if braceBalance < 1 {
				braceBalance = 1
			}
		}

		if bareNullReturn.MatchString(trimmed) {
			if !nullableReturnScope && !a.isValidNotFound(lines, i) && !isConditionalRender(trimmed) {
				violations = append(violations, domain.Violation{
					Line:    i + 1,
					Rule:    "bare-null-return",
					Message: "Bare null/undefined return hides missing data",
					Advice:  "Declare a nullable return type or raise an explicit error",
				})
			}
			continue
		}

		if m := orFallback.FindStringIndex(line); m != nil {
			if !isBooleanLogic(line) && !isConditionalRender(line) && !isAttributeExpression(line) {
				violations = append(violations, domain.Violation{
					Line:    i + 1,
					Column:  m[0] + 1,
					Rule:    "or-fallback",
					Message: "Logical-OR default masks absent data",
					Advice:  "Handle the missing value explicitly instead of defaulting",
				})
			}
		}

		if optChainOnLine.MatchString(line) {
			if m := nullishFallback.FindStringIndex(line); m != nil && !isAttributeExpression(line) && !isConditionalRender(line) {
				violations = append(violations, domain.Violation{
					Line:    i + 1,
					Column:  m[0] + 1,
					Rule:    "optional-chain-fallback",
					Message: "Optional chaining with a literal fallback masks absent data",
					Advice:  "Check for the missing value explicitly instead of defaulting",
				})
			}
		}

		if m := ternaryFallback.FindStringIndex(line); m != nil {
			if !isAttributeExpression(line) && !isConditionalRender(line) {
				violations = append(violations, domain.Violation{
					Line:    i + 1,
					Column:  m[0] + 1,
					Rule:    "ternary-fallback",
					Message: "Ternary with a literal default masks absent data",
					Advice:  "Make the empty case explicit instead of defaulting",
				})
			}
		}
	}

	return violations
}

// isValidNotFound exempts `return null` within a not-found guard: the
// nearby text mentions a cache/expiry/missing context. This is a tunable
// heuristic, not a semantic guarantee.
func (a *FallbackAnalyzer) isValidNotFound(lines []string, idx int) bool {
	start := idx - 3
	if start < 0 {
		start = 0
	}
	for i := start; i <= idx; i++ {
		if notFoundContext.MatchString(lines[i]) {
			return true
		}
	}
	return false
}

// isConditionalRender exempts JSX conditional-render idioms
func isConditionalRender(line string) bool {
	if strings.Contains(line, "&&") && strings.Contains(line, "<") {
		return true
	}
	return strings.Contains(line, "? <") || strings.Contains(line, ": <")
}

// isAttributeExpression exempts ternaries/defaults inside JSX attribute
// expressions like className={active ? "on" : ""}
func isAttributeExpression(line string) bool {
	return strings.Contains(line, "={")
}

// isBooleanLogic exempts || chains whose operands look boolean
func isBooleanLogic(line string) bool {
	return booleanOperand.MatchString(line)
}
