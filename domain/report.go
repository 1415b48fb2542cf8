package domain

import "io"

// ReportStatus is the overall verdict of one run
type ReportStatus string

const (
	ReportStatusPass ReportStatus = "pass"
	ReportStatusFail ReportStatus = "fail"
)

// Issue is one actionable finding in the emitted report
type Issue struct {
	Source  Category `json:"source"`
	Type    string   `json:"type"`
	Line    int      `json:"line,omitempty"`
	Column  int      `json:"column,omitempty"`
	Rule    string   `json:"rule,omitempty"`
	Message string   `json:"message"`
	Advice  string   `json:"advice,omitempty"`
	Symbol  string   `json:"symbol,omitempty"`
	Fixable bool     `json:"fixable,omitempty"`
}

// FileReport holds the issues of one file in the emitted report
type FileReport struct {
	RelPath string  `json:"relPath"`
	Issues  []Issue `json:"issues"`
}

// DuplicateGroup is a prioritized repo-level duplicate finding with a
// suggested consolidation location
type DuplicateGroup struct {
	First             Span   `json:"first"`
	Second            Span   `json:"second"`
	Tokens            int    `json:"tokens"`
	Lines             int    `json:"lines"`
	SuggestedLocation string `json:"suggestedLocation"`
}

// RepoDeadCode holds dead-code findings that belong to the repo, not to
// any single reviewed file
type RepoDeadCode struct {
	UnusedFiles  []string `json:"unusedFiles,omitempty"`
	UnlistedDeps []string `json:"unlistedDependencies,omitempty"`
}

// Empty reports whether there is nothing to show at repo level
func (r *RepoDeadCode) Empty() bool {
	return r == nil || (len(r.UnusedFiles) == 0 && len(r.UnlistedDeps) == 0)
}

// RepoDuplication holds the repo-level duplicate summary
type RepoDuplication struct {
	TopGroups  []DuplicateGroup `json:"topGroups,omitempty"`
	Percentage float64          `json:"percentage,omitempty"`
}

// RepoResult aggregates the repo-wide gates before report synthesis
type RepoResult struct {
	LintErrors   int
	LintWarnings int
	LintSkipped  bool

	CompilerAppErrors  int
	CompilerTestErrors int

	DeadCode    *RepoDeadCode
	Duplication *RepoDuplication

	Warnings []string
}

// Clean reports whether every repo-wide gate passed
func (r *RepoResult) Clean() bool {
	if r.LintErrors > 0 || r.CompilerAppErrors > 0 || r.CompilerTestErrors > 0 {
		return false
	}
	if !r.DeadCode.Empty() {
		return false
	}
	if r.Duplication != nil && len(r.Duplication.TopGroups) > 0 {
		return false
	}
	return true
}

// RepoFindings is the repo-level block of the emitted report. Only the
// gates that actually failed appear; detail already attributed to a
// specific file is not repeated here.
type RepoFindings struct {
	LintErrors         int              `json:"lintErrors,omitempty"`
	LintWarnings       int              `json:"lintWarnings,omitempty"`
	CompilerAppErrors  int              `json:"compilerAppErrors,omitempty"`
	CompilerTestErrors int              `json:"compilerTestErrors,omitempty"`
	DeadCode           *RepoDeadCode    `json:"deadCode,omitempty"`
	Duplication        *RepoDuplication `json:"duplication,omitempty"`
}

// ExecutionPlan is the report's embedded remediation instruction:
// apply every listed fix, then re-run the whole verification.
type ExecutionPlan struct {
	Primary  string   `json:"primary"`
	Strategy string   `json:"strategy"`
	Steps    []string `json:"steps"`
}

// ReportSummary is the aggregate block of the emitted report
type ReportSummary struct {
	Status        ReportStatus   `json:"status"`
	FilesReviewed int            `json:"filesReviewed"`
	FilesFailing  int            `json:"filesFailing"`
	IssuesByType  map[string]int `json:"issuesByCategory,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	DurationMS    int64          `json:"duration_ms"`
	GeneratedAt   string         `json:"generated_at"`
	Version       string         `json:"version"`
}

// Report is the externally visible artifact of one run
type Report struct {
	Summary       ReportSummary  `json:"summary"`
	Results       []FileReport   `json:"results,omitempty"`
	Repo          *RepoFindings  `json:"repo,omitempty"`
	ExecutionPlan *ExecutionPlan `json:"executionPlan,omitempty"`
}

// Passed reports whether the run passed overall
func (r *Report) Passed() bool {
	return r.Summary.Status == ReportStatusPass
}

// ReportBuilder synthesizes the report from the merged result set
type ReportBuilder interface {
	// Build produces the report; fullReport includes passing files
	Build(results []*FileResult, repo *RepoResult, fullReport bool) *Report

	// Write persists the report, replacing any previous one atomically
	Write(report *Report, path string) error
}

// SummaryGenerator renders the human-readable projection of a report
type SummaryGenerator interface {
	Render(w io.Writer, report *Report) error
}
