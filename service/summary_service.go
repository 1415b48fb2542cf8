package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/tsreview/domain"
)

// SummaryService renders the console projection of a report in the
// requested output format
type SummaryService struct {
	format domain.OutputFormat
}

// NewSummaryService creates a summary renderer for the given format
func NewSummaryService(format domain.OutputFormat) *SummaryService {
	if format == "" {
		format = domain.OutputFormatText
	}
	return &SummaryService{format: format}
}

// Render writes the report projection to w
func (s *SummaryService) Render(w io.Writer, report *domain.Report) error {
	switch s.format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case domain.OutputFormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return domain.NewAnalysisError("failed to encode summary as YAML", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return s.renderText(w, report)
	}
}

func (s *SummaryService) renderText(w io.Writer, report *domain.Report) error {
	if report.Passed() {
		fmt.Fprintf(w, "Review %s\n\n", color.GreenString("PASSED"))
	} else {
		fmt.Fprintf(w, "Review %s\n\n", color.RedString("FAILED"))
	}

	fmt.Fprintf(w, "Files reviewed: %d\n", report.Summary.FilesReviewed)
	fmt.Fprintf(w, "Files failing:  %d\n", report.Summary.FilesFailing)

	if len(report.Summary.IssuesByType) > 0 {
		fmt.Fprintln(w)
		if err := s.renderIssueTable(w, report); err != nil {
			return err
		}
	}

	if repo := report.Repo; repo != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Repo-wide findings"))
		if repo.LintErrors > 0 || repo.LintWarnings > 0 {
			fmt.Fprintf(w, "  lint: %d errors, %d warnings\n", repo.LintErrors, repo.LintWarnings)
		}
		if repo.CompilerAppErrors > 0 {
			fmt.Fprintf(w, "  compiler (app): %d errors\n", repo.CompilerAppErrors)
		}
		if repo.CompilerTestErrors > 0 {
			fmt.Fprintf(w, "  compiler (test): %d errors\n", repo.CompilerTestErrors)
		}
		if !repo.DeadCode.Empty() {
			for _, f := range repo.DeadCode.UnusedFiles {
				fmt.Fprintf(w, "  unused file: %s\n", f)
			}
			for _, dep := range repo.DeadCode.UnlistedDeps {
				fmt.Fprintf(w, "  unlisted dependency: %s\n", dep)
			}
		}
		if repo.Duplication != nil {
			for _, g := range repo.Duplication.TopGroups {
				fmt.Fprintf(w, "  duplicate: %s:%d-%d and %s:%d-%d (%d tokens), consolidate under %s\n",
					g.First.File, g.First.StartLine, g.First.EndLine,
					g.Second.File, g.Second.StartLine, g.Second.EndLine,
					g.Tokens, g.SuggestedLocation)
			}
		}
	}

	for _, warning := range report.Summary.Warnings {
		fmt.Fprintf(w, "\n%s %s\n", color.YellowString("warning:"), warning)
	}

	if plan := report.ExecutionPlan; plan != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Next steps"))
		for i, step := range plan.Steps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

func (s *SummaryService) renderIssueTable(w io.Writer, report *domain.Report) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Issues"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, cat := range domain.AllCategories {
		count := report.Summary.IssuesByType[string(cat)]
		if count == 0 {
			continue
		}
		data = append(data, []string{string(cat), strconv.Itoa(count)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
