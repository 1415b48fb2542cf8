package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/tsreview/app"
	"github.com/ludo-technologies/tsreview/domain"
)

// ReviewExitError carries a process exit code through cobra
type ReviewExitError struct {
	Code    int
	Message string
}

func (e *ReviewExitError) Error() string {
	return e.Message
}

var (
	reviewFull       bool
	reviewFormat     string
	reviewReportPath string
	reviewConfigPath string
	reviewJobs       int
	reviewTimeout    int
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review [path...]",
		Short: "Review files and produce a quality report",
		Long: `Run heuristic checks and the delegated external tools against the
given files or directories, merge the findings and write the report.
With no paths, the whole tree under the current directory is reviewed.

Exit codes:
  0 - Review passed
  1 - Review found violations
  2 - The review itself failed (tool failure, bad input, version mismatch)

Examples:
  # Review the whole project
  tsreview review

  # Review specific paths with the full (passing files included) report
  tsreview review --full src/ lib/util.ts

  # Machine-readable console output
  tsreview review --format json src/`,
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&reviewFull, "full", false,
		"Include passing files in the report")
	cmd.Flags().StringVarP(&reviewFormat, "format", "f", "",
		"Console output format: text, json, yaml")
	cmd.Flags().StringVarP(&reviewReportPath, "output", "o", "",
		"Report file path (default from config)")
	cmd.Flags().StringVarP(&reviewConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVarP(&reviewJobs, "jobs", "j", 0,
		"Maximum concurrent checks (0 = config default)")
	cmd.Flags().IntVar(&reviewTimeout, "timeout", 0,
		"Per-tool timeout in seconds (0 = config default)")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	projectRoot, err := os.Getwd()
	if err != nil {
		return &ReviewExitError{Code: 2, Message: fmt.Sprintf("cannot determine working directory: %v", err)}
	}

	req := domain.ReviewRequest{
		ProjectRoot:        projectRoot,
		Paths:              args,
		OutputFormat:       domain.OutputFormat(reviewFormat),
		OutputWriter:       os.Stdout,
		ReportPath:         reviewReportPath,
		MaxConcurrency:     reviewJobs,
		ToolTimeoutSeconds: reviewTimeout,
	}
	// Only an explicit flag overrides the configured value, so
	// --full=false can turn off a config default.
	if cmd.Flags().Changed("full") {
		req.FullReport = domain.BoolPtr(reviewFull)
	}

	report, err := app.NewReviewUseCase().Review(context.Background(), req)
	if err != nil {
		return &ReviewExitError{Code: 2, Message: err.Error()}
	}

	if !report.Passed() {
		// Findings were already printed; only the exit code remains.
		return &ReviewExitError{Code: 1}
	}
	return nil
}
