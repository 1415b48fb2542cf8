package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Category identifies one per-file verdict
type Category string

const (
	CategorySize        Category = "size"
	CategoryComments    Category = "comments"
	CategoryConsole     Category = "console"
	CategoryLint        Category = "lint"
	CategoryCompiler    Category = "compiler"
	CategoryFallback    Category = "fallback"
	CategoryFramework   Category = "framework"
	CategoryAnnotations Category = "annotations"
	CategoryDeadCode    Category = "deadcode"
	CategoryDuplication Category = "duplication"
)

// AllCategories lists every per-file category in reporting order
var AllCategories = []Category{
	CategorySize,
	CategoryComments,
	CategoryConsole,
	CategoryLint,
	CategoryCompiler,
	CategoryFallback,
	CategoryFramework,
	CategoryAnnotations,
	CategoryDeadCode,
	CategoryDuplication,
}

// CategoryStatus is the verdict of one category for one file
type CategoryStatus string

const (
	StatusPass    CategoryStatus = "pass"
	StatusFail    CategoryStatus = "fail"
	StatusSkipped CategoryStatus = "skipped"
)

// Violation is a single finding inside a category
type Violation struct {
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
	Advice  string `json:"advice,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// CategoryResult holds the verdict and findings of one category.
// Status is derived strictly from the violation list except for the
// skipped state, which carries no violations.
type CategoryResult struct {
	Status     CategoryStatus `json:"status"`
	Violations []Violation    `json:"violations,omitempty"`
}

// NewCategoryResult derives a pass/fail result from a violation list
func NewCategoryResult(violations []Violation) *CategoryResult {
	status := StatusPass
	if len(violations) > 0 {
		status = StatusFail
	}
	return &CategoryResult{Status: status, Violations: violations}
}

// SkippedCategoryResult marks a category that was deliberately not run
func SkippedCategoryResult() *CategoryResult {
	return &CategoryResult{Status: StatusSkipped}
}

// FileTask identifies one file under review. Immutable after creation.
type FileTask struct {
	// AbsPath is the absolute path on disk
	AbsPath string

	// RelPath is the repo-relative identity used in reports
	RelPath string
}

// FileResult accumulates category verdicts for one file. A category that
// is absent from the map was never evaluated for this file and can never
// fail it.
type FileResult struct {
	Task       FileTask
	Categories map[Category]*CategoryResult
}

// NewFileResult creates an empty result for a file task
func NewFileResult(task FileTask) *FileResult {
	return &FileResult{
		Task:       task,
		Categories: make(map[Category]*CategoryResult),
	}
}

// Set records a category verdict derived from its violations
func (r *FileResult) Set(cat Category, violations []Violation) {
	r.Categories[cat] = NewCategoryResult(violations)
}

// Skip records a deliberately skipped category
func (r *FileResult) Skip(cat Category) {
	r.Categories[cat] = SkippedCategoryResult()
}

// FailingCategories returns the categories that failed, in reporting order
func (r *FileResult) FailingCategories() []Category {
	var failing []Category
	for _, cat := range AllCategories {
		if cr, ok := r.Categories[cat]; ok && cr.Status == StatusFail {
			failing = append(failing, cat)
		}
	}
	return failing
}

// Passed reports whether no category failed for this file
func (r *FileResult) Passed() bool {
	return len(r.FailingCategories()) == 0
}

// FileAnalyzer is a pure per-file heuristic check. Implementations must
// not perform I/O; content is supplied by the run-scoped file cache.
type FileAnalyzer interface {
	// Name returns the category this analyzer contributes
	Name() Category

	// Analyze scans the file content and returns its violations
	Analyze(content string) []Violation
}

// ReviewRequest describes one pipeline invocation
type ReviewRequest struct {
	// ProjectRoot is the directory of the project under review
	ProjectRoot string

	// Paths are explicit files or directories to review; empty means
	// full-tree discovery under ProjectRoot
	Paths []string

	// FullReport includes passing files in the report result list;
	// nil leaves the configured value in place
	FullReport *bool

	// OutputFormat controls the console projection of the report
	OutputFormat OutputFormat

	// OutputWriter receives the console projection
	OutputWriter io.Writer

	// ReportPath overrides the on-disk report location
	ReportPath string

	// MaxConcurrency bounds the per-file analysis (0 = config default)
	MaxConcurrency int

	// ToolTimeoutSeconds overrides the per-tool timeout (0 = config default)
	ToolTimeoutSeconds int

	// ConfigPath is an explicit configuration file path
	ConfigPath string
}

// ReviewService drives the whole orchestration pipeline
type ReviewService interface {
	// Review runs analyzers and external tools, merges their findings
	// and produces the final report
	Review(ctx context.Context, req ReviewRequest) (*Report, error)
}

// FileCollector is the collaborator that discovers reviewable files
type FileCollector interface {
	// CollectFiles resolves paths into reviewable file tasks relative
	// to the project root, honoring extension and directory rules
	CollectFiles(projectRoot string, paths []string) ([]FileTask, error)

	// FileExists reports whether path exists and is a regular file
	FileExists(path string) (bool, error)
}
