package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/version"
)

// ReportService synthesizes the final report from the merged result set
// and persists it. Output is deterministic for a given result set so
// that re-running an unchanged tree replaces the report with an
// identical one, modulo timestamps.
type ReportService struct{}

// NewReportService creates a report builder
func NewReportService() *ReportService {
	return &ReportService{}
}

// Build produces the report. The minimized form lists only failing
// files; fullReport includes passing files as well. The repo block
// carries only the gates that failed, without repeating detail already
// attributed to a specific file.
func (s *ReportService) Build(results []*domain.FileResult, repo *domain.RepoResult, fullReport bool) *domain.Report {
	sorted := make([]*domain.FileResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Task.RelPath < sorted[j].Task.RelPath
	})

	issuesByType := make(map[string]int)
	filesFailing := 0
	var fileReports []domain.FileReport

	for _, result := range sorted {
		issues := fileIssues(result)
		for _, issue := range issues {
			issuesByType[issue.Type]++
		}
		failing := len(result.FailingCategories()) > 0
		if failing {
			filesFailing++
		}
		if failing || fullReport {
			fileReports = append(fileReports, domain.FileReport{
				RelPath: result.Task.RelPath,
				Issues:  issues,
			})
		}
	}

	status := domain.ReportStatusPass
	if filesFailing > 0 || !repo.Clean() {
		status = domain.ReportStatusFail
	}

	report := &domain.Report{
		Summary: domain.ReportSummary{
			Status:        status,
			FilesReviewed: len(results),
			FilesFailing:  filesFailing,
			IssuesByType:  issuesByType,
			Warnings:      repo.Warnings,
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			Version:       version.Version,
		},
		Results: fileReports,
		Repo:    repoFindings(repo),
	}
	if status == domain.ReportStatusFail {
		report.ExecutionPlan = &domain.ExecutionPlan{
			Primary:  "apply all fixes",
			Strategy: "fix everything in one pass, then verify once",
			Steps: []string{
				"Apply every fix listed in this report.",
				"Re-run the full review and confirm a passing result.",
			},
		}
	}
	return report
}

// fileIssues flattens a file's failing categories into report issues,
// in category reporting order
func fileIssues(result *domain.FileResult) []domain.Issue {
	var issues []domain.Issue
	for _, cat := range domain.AllCategories {
		cr, ok := result.Categories[cat]
		if !ok || cr.Status != domain.StatusFail {
			continue
		}
		for _, v := range cr.Violations {
			issues = append(issues, domain.Issue{
				Source:  cat,
				Type:    string(cat),
				Line:    v.Line,
				Column:  v.Column,
				Rule:    v.Rule,
				Message: v.Message,
				Advice:  v.Advice,
				Symbol:  v.Symbol,
				Fixable: v.Fixable,
			})
		}
	}
	return issues
}

// repoFindings projects only the failed repo-wide gates; a fully clean
// repo yields no block at all
func repoFindings(repo *domain.RepoResult) *domain.RepoFindings {
	if repo.Clean() {
		return nil
	}
	findings := &domain.RepoFindings{}
	if repo.LintErrors > 0 || repo.LintWarnings > 0 {
		findings.LintErrors = repo.LintErrors
		findings.LintWarnings = repo.LintWarnings
	}
	findings.CompilerAppErrors = repo.CompilerAppErrors
	findings.CompilerTestErrors = repo.CompilerTestErrors
	if !repo.DeadCode.Empty() {
		findings.DeadCode = repo.DeadCode
	}
	if repo.Duplication != nil && len(repo.Duplication.TopGroups) > 0 {
		findings.Duplication = repo.Duplication
	}
	return findings
}

// Write persists the report as indented JSON, atomically replacing any
// previous report at the same path
func (s *ReportService) Write(report *domain.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return domain.NewAnalysisError("failed to encode report", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewAnalysisError(fmt.Sprintf("failed to create report directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".tsreview-report-*")
	if err != nil {
		return domain.NewAnalysisError("failed to create temporary report file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return domain.NewAnalysisError("failed to write report", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return domain.NewAnalysisError("failed to write report", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return domain.NewAnalysisError(fmt.Sprintf("failed to replace report at %s", path), err)
	}
	return nil
}
