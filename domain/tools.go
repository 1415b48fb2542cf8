package domain

import "context"

// LintSeverity mirrors the lint engine's numeric severity levels
type LintSeverity int

const (
	LintSeverityWarning LintSeverity = 1
	LintSeverityError   LintSeverity = 2
)

// LintMessage is one diagnostic reported by the lint engine
type LintMessage struct {
	RuleID   string       `json:"ruleId"`
	Severity LintSeverity `json:"severity"`
	Message  string       `json:"message"`
	Line     int          `json:"line"`
	Column   int          `json:"column"`
	Fixable  bool         `json:"fixable,omitempty"`
}

// LintOutput is the parsed result of one lint engine invocation,
// keyed by absolute file path. Immutable once produced.
type LintOutput struct {
	// Skipped is set when no lint configuration was discoverable;
	// the step is degraded with a warning, not failed
	Skipped bool

	// Warning carries the degrade reason when Skipped is set
	Warning string

	// Files maps absolute paths to their lint messages
	Files map[string][]LintMessage
}

// CompilerDiagnostic is one diagnostic from a compiler no-emit run
type CompilerDiagnostic struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// CompilerOutput is the parsed result of one compiler diagnostics run.
// Unmatched output lines are counted rather than discarded so that an
// unexpected format never produces a false PASS.
type CompilerOutput struct {
	Diagnostics  []CompilerDiagnostic
	GlobalErrors []string
	UnknownLines int
}

// Clean reports whether the run produced no diagnostics at all
func (o *CompilerOutput) Clean() bool {
	return len(o.Diagnostics) == 0 && len(o.GlobalErrors) == 0 && o.UnknownLines == 0
}

// SymbolRef locates a named symbol inside a file
type SymbolRef struct {
	Name   string `json:"name"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"col,omitempty"`
}

// DeadCodeFileReport holds the dead-code detector findings for one file
type DeadCodeFileReport struct {
	FilePath           string      `json:"file"`
	UnusedExports      []SymbolRef `json:"exports,omitempty"`
	UnusedTypes        []SymbolRef `json:"types,omitempty"`
	UnusedEnumMembers  []SymbolRef `json:"enumMembers,omitempty"`
	UnusedClassMembers []SymbolRef `json:"classMembers,omitempty"`
	UnresolvedImports  []string    `json:"unresolved,omitempty"`
	UnlistedDeps       []string    `json:"unlisted,omitempty"`
}

// DeadCodeOutput is the parsed result of one dead-code detector run
type DeadCodeOutput struct {
	Files       []DeadCodeFileReport
	UnusedFiles []string
}

// Span is a line range inside a file
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// DuplicatePair is one near-duplicate region reported by the duplicate
// detector, as two participating spans
type DuplicatePair struct {
	First  Span `json:"first"`
	Second Span `json:"second"`
	Tokens int  `json:"tokens"`
	Lines  int  `json:"lines"`
}

// DuplicateOutput is the parsed result of one duplicate detector run
type DuplicateOutput struct {
	Pairs []DuplicatePair

	// Percentage is the aggregate duplication ratio when reported
	Percentage float64
}

// ToolOutputs joins the four repo-wide tool results before merge
type ToolOutputs struct {
	// Lint is the batch run over the reviewed files
	Lint *LintOutput

	// RepoLint is the whole-tree lint gate
	RepoLint *LintOutput

	// CompilerApp is the diagnostics run against the app configuration
	CompilerApp *CompilerOutput

	// CompilerTest is the diagnostics run against the test configuration
	CompilerTest *CompilerOutput

	DeadCode   *DeadCodeOutput
	Duplicates *DuplicateOutput
}

// LintRunner invokes the lint engine
type LintRunner interface {
	// RunFiles lints the given absolute paths in sub-batches
	RunFiles(ctx context.Context, projectRoot string, files []string) (*LintOutput, error)

	// RunTree lints the whole project tree as a repo-wide gate
	RunTree(ctx context.Context, projectRoot string) (*LintOutput, error)
}

// CompilerRunner invokes compiler diagnostics
type CompilerRunner interface {
	// CheckVersionParity compares the project compiler against the
	// orchestrator's own; a mismatch is a fatal precondition error
	CheckVersionParity(ctx context.Context, projectRoot string) error

	// Run performs a no-emit diagnostics run against configPath
	Run(ctx context.Context, projectRoot, configPath string) (*CompilerOutput, error)
}

// DeadCodeRunner invokes the dead-code detector
type DeadCodeRunner interface {
	Run(ctx context.Context, projectRoot string) (*DeadCodeOutput, error)
}

// DuplicateRunner invokes the duplicate-code detector
type DuplicateRunner interface {
	Run(ctx context.Context, projectRoot string) (*DuplicateOutput, error)
}

// ResultMerger reconciles raw tool outputs into the per-file result set
type ResultMerger interface {
	// MergeDeadCode reclassifies dead-code candidates by re-scanning
	// each implicated file for symbol occurrences, then records the
	// deadcode category on every reviewed file
	MergeDeadCode(ctx context.Context, out *DeadCodeOutput, results []*FileResult) (*RepoDeadCode, error)

	// MergeDuplicates fans each clone pair out into two per-file
	// segment records and aggregates the largest repo-level groups
	MergeDuplicates(out *DuplicateOutput, results []*FileResult) *RepoDuplication
}
