package app

import (
	"context"
	"testing"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/config"
	"github.com/ludo-technologies/tsreview/internal/testutil"
)

func newTestState(relPaths ...string) *runState {
	state := &runState{
		cfg:         config.DefaultConfig(),
		projectRoot: "/repo",
		warnings:    make(map[string]bool),
	}
	for _, rel := range relPaths {
		task := domain.FileTask{AbsPath: "/repo/" + rel, RelPath: rel}
		state.tasks = append(state.tasks, task)
		state.results = append(state.results, domain.NewFileResult(task))
	}
	return state
}

func TestAttachLintErrorsFailFile(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts", "src/b.ts")
	state.outputs.Lint = &domain.LintOutput{
		Files: map[string][]domain.LintMessage{
			"/repo/src/a.ts": {
				{RuleID: "no-unused-vars", Severity: domain.LintSeverityError, Line: 3, Message: "unused"},
				{RuleID: "prefer-const", Severity: domain.LintSeverityWarning, Line: 8, Message: "warn"},
			},
		},
	}
	state.outputs.RepoLint = &domain.LintOutput{
		Files: map[string][]domain.LintMessage{
			"/repo/src/a.ts": {
				{Severity: domain.LintSeverityError},
				{Severity: domain.LintSeverityWarning},
			},
		},
	}

	repo := &domain.RepoResult{}
	uc.attachLint(state, repo)

	cr := state.results[0].Categories[domain.CategoryLint]
	if len(cr.Violations) != 1 {
		t.Fatalf("Only error-severity messages should fail a file, got %+v", cr.Violations)
	}
	testutil.AssertEqual(t, "no-unused-vars", cr.Violations[0].Rule)
	testutil.AssertEqual(t, domain.StatusFail, cr.Status)

	testutil.AssertEqual(t, domain.StatusPass, state.results[1].Categories[domain.CategoryLint].Status)
	testutil.AssertEqual(t, 1, repo.LintErrors)
	testutil.AssertEqual(t, 1, repo.LintWarnings)
}

func TestAttachLintSkippedDegradesWithWarning(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts")
	state.outputs.Lint = &domain.LintOutput{Skipped: true, Warning: "no lint configuration found; lint checks skipped"}
	state.outputs.RepoLint = &domain.LintOutput{Skipped: true, Warning: "no lint configuration found; lint checks skipped"}

	repo := &domain.RepoResult{}
	uc.attachLint(state, repo)

	testutil.AssertEqual(t, domain.StatusSkipped, state.results[0].Categories[domain.CategoryLint].Status)
	testutil.AssertTrue(t, repo.LintSkipped, "repo should record the skip")

	warnings := state.sortedWarnings()
	if len(warnings) != 1 {
		t.Fatalf("Identical warnings must be deduplicated, got %v", warnings)
	}
}

func TestAttachLintDisabledSkipsSilently(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts")

	repo := &domain.RepoResult{}
	uc.attachLint(state, repo)

	testutil.AssertEqual(t, domain.StatusSkipped, state.results[0].Categories[domain.CategoryLint].Status)
	if len(state.sortedWarnings()) != 0 {
		t.Error("A disabled tool is not a warning")
	}
}

func TestAttachCompilerMapsDiagnosticsToFiles(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts", "src/b.ts")
	state.outputs.CompilerApp = &domain.CompilerOutput{
		Diagnostics: []domain.CompilerDiagnostic{
			{File: "src/a.ts", Line: 12, Column: 5, Code: "TS2322", Message: "type mismatch"},
		},
		GlobalErrors: []string{"TS18003: no inputs"},
	}
	state.outputs.CompilerTest = &domain.CompilerOutput{
		Diagnostics: []domain.CompilerDiagnostic{
			{File: "src/a.ts", Line: 30, Code: "TS2345", Message: "bad arg"},
		},
	}

	repo := &domain.RepoResult{}
	uc.attachCompiler(state, repo)

	cr := state.results[0].Categories[domain.CategoryCompiler]
	if len(cr.Violations) != 2 {
		t.Fatalf("Both runs should contribute diagnostics, got %+v", cr.Violations)
	}
	testutil.AssertEqual(t, "TS2322", cr.Violations[0].Rule)
	testutil.AssertEqual(t, domain.StatusPass, state.results[1].Categories[domain.CategoryCompiler].Status)

	testutil.AssertEqual(t, 2, repo.CompilerAppErrors)
	testutil.AssertEqual(t, 1, repo.CompilerTestErrors)
}

func TestAttachCompilerUnknownLinesNeverPass(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts")
	state.outputs.CompilerApp = &domain.CompilerOutput{UnknownLines: 2}

	repo := &domain.RepoResult{}
	uc.attachCompiler(state, repo)

	if repo.CompilerAppErrors == 0 {
		t.Error("Unrecognized compiler output must count against the gate")
	}
	if len(state.sortedWarnings()) != 1 {
		t.Error("Unrecognized output should surface a warning")
	}
}

func TestAttachCompilerDisabledSkips(t *testing.T) {
	uc := NewReviewUseCase()
	state := newTestState("src/a.ts")

	uc.attachCompiler(state, &domain.RepoResult{})
	testutil.AssertEqual(t, domain.StatusSkipped, state.results[0].Categories[domain.CategoryCompiler].Status)
}

func TestApplyRequestOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	applyRequestOverrides(cfg, domain.ReviewRequest{
		MaxConcurrency:     9,
		FullReport:         domain.BoolPtr(true),
		ReportPath:         "custom.json",
		OutputFormat:       domain.OutputFormatYAML,
		ToolTimeoutSeconds: 42,
	})

	testutil.AssertEqual(t, 9, cfg.Performance.MaxGoroutines)
	testutil.AssertTrue(t, cfg.Output.FullReport, "full report override")
	testutil.AssertEqual(t, "custom.json", cfg.Output.ReportPath)
	testutil.AssertEqual(t, "yaml", cfg.Output.Format)
	testutil.AssertEqual(t, 42, cfg.Tools.TimeoutSeconds)
}

func TestApplyRequestOverridesZeroValuesKeepConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	applyRequestOverrides(cfg, domain.ReviewRequest{})

	testutil.AssertEqual(t, config.DefaultMaxGoroutines, cfg.Performance.MaxGoroutines)
	testutil.AssertEqual(t, "text", cfg.Output.Format)
	testutil.AssertEqual(t, config.DefaultReportPath, cfg.Output.ReportPath)
}

func TestApplyRequestOverridesFullReportTristate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.FullReport = true

	applyRequestOverrides(cfg, domain.ReviewRequest{})
	testutil.AssertTrue(t, cfg.Output.FullReport, "nil request field keeps config value")

	applyRequestOverrides(cfg, domain.ReviewRequest{FullReport: domain.BoolPtr(false)})
	testutil.AssertFalse(t, cfg.Output.FullReport, "explicit false overrides config value")
}

func TestDisabledHeuristicsListsOnlyDisabled(t *testing.T) {
	checks := config.DefaultConfig().Checks
	checks.Console = false
	checks.Framework = false

	disabled := disabledHeuristics(checks)
	if len(disabled) != 2 {
		t.Fatalf("Expected 2 disabled categories, got %v", disabled)
	}
	if disabled[0] != domain.CategoryConsole || disabled[1] != domain.CategoryFramework {
		t.Errorf("Unexpected disabled set: %v", disabled)
	}
}

func TestToolTaskAdapter(t *testing.T) {
	ran := false
	task := &toolTask{name: "probe", enabled: true, run: func(ctx context.Context) error {
		ran = true
		return nil
	}}

	testutil.AssertEqual(t, "probe", task.Name())
	testutil.AssertTrue(t, task.IsEnabled(), "task should be enabled")
	_, err := task.Execute(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ran, "Execute should invoke the closure")
}
