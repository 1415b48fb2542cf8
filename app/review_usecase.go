// Package app wires the review pipeline: file discovery, heuristic
// analysis, delegated external tools, result merge and report synthesis.
package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/analyzer"
	"github.com/ludo-technologies/tsreview/internal/cache"
	"github.com/ludo-technologies/tsreview/internal/config"
	"github.com/ludo-technologies/tsreview/internal/toolrunner"
	"github.com/ludo-technologies/tsreview/service"
)

// ReviewUseCase orchestrates one review run
type ReviewUseCase struct{}

// NewReviewUseCase creates the review use case
func NewReviewUseCase() *ReviewUseCase {
	return &ReviewUseCase{}
}

// toolTask adapts a closure into an executable task for the parallel
// executor
type toolTask struct {
	name    string
	enabled bool
	run     func(ctx context.Context) error
}

func (t *toolTask) Name() string    { return t.name }
func (t *toolTask) IsEnabled() bool { return t.enabled }
func (t *toolTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}

// runState carries everything one review run accumulates
type runState struct {
	cfg         *config.Config
	projectRoot string
	tasks       []domain.FileTask
	results     []*domain.FileResult
	cache       *cache.FileCache
	executor    *service.ParallelExecutorImpl
	outputs     domain.ToolOutputs

	warnMu   sync.Mutex
	warnings map[string]bool
}

func (s *runState) warn(msg string) {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	s.warnings[msg] = true
}

func (s *runState) sortedWarnings() []string {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	if len(s.warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.warnings))
	for w := range s.warnings {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Review runs the whole pipeline and returns the built report. A nil
// report with a non-nil error means the run itself failed and no report
// was written; a returned report with failing status is not an error.
func (uc *ReviewUseCase) Review(ctx context.Context, req domain.ReviewRequest) (*domain.Report, error) {
	start := time.Now()

	cfg, err := config.LoadConfigWithTarget(req.ConfigPath, req.ProjectRoot)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	applyRequestOverrides(cfg, req)

	projectRoot, err := filepath.Abs(req.ProjectRoot)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project root", err)
	}

	collector := service.NewFileCollector(&cfg.Analysis)
	tasks, err := collector.CollectFiles(projectRoot, req.Paths)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to collect files", err)
	}

	pm := service.NewProgressManager(service.IsInteractiveEnvironment())
	defer pm.Close()

	state := &runState{
		cfg:         cfg,
		projectRoot: projectRoot,
		tasks:       tasks,
		results:     make([]*domain.FileResult, len(tasks)),
		cache:       cache.NewFileCache(),
		executor:    service.NewParallelExecutorWithProgress(&cfg.Performance, pm),
		warnings:    make(map[string]bool),
	}
	for i, task := range tasks {
		state.results[i] = domain.NewFileResult(task)
	}

	timeout := time.Duration(cfg.Tools.TimeoutSeconds) * time.Second
	runner := toolrunner.NewCommandRunner(timeout)
	eslint := toolrunner.NewESLintRunner(runner, cfg.Tools.ESLint.Binary, cfg.Tools.ESLint.CacheLocation, cfg.Tools.ESLint.SubBatchSize)
	tsc := toolrunner.NewTscRunner(runner, cfg.Tools.Compiler.Binary)
	knip := toolrunner.NewKnipRunner(runner, cfg.Tools.DeadCode.Binary)
	jscpd := toolrunner.NewJscpdRunner(runner, cfg.Tools.Duplication.Binary, cfg.Tools.Duplication.MinTokens)

	// The version parity gate runs before any tool does real work; a
	// mismatched compiler would make every downstream verdict suspect.
	if cfg.Tools.Compiler.Enabled {
		if err := tsc.CheckVersionParity(ctx, projectRoot); err != nil {
			return nil, err
		}
	}

	if err := state.executor.Execute(ctx, uc.buildTasks(state, eslint, tsc, knip, jscpd)); err != nil {
		return nil, err
	}

	repo, err := uc.mergeResults(ctx, state)
	if err != nil {
		return nil, err
	}

	builder := service.NewReportService()
	report := builder.Build(state.results, repo, cfg.Output.FullReport)
	report.Summary.DurationMS = time.Since(start).Milliseconds()

	reportPath := cfg.Output.ReportPath
	if !filepath.IsAbs(reportPath) {
		reportPath = filepath.Join(projectRoot, reportPath)
	}
	if err := builder.Write(report, reportPath); err != nil {
		return nil, err
	}

	out := req.OutputWriter
	if out == nil {
		out = os.Stdout
	}
	summary := service.NewSummaryService(domain.OutputFormat(cfg.Output.Format))
	if err := summary.Render(out, report); err != nil {
		return nil, err
	}

	return report, nil
}

func applyRequestOverrides(cfg *config.Config, req domain.ReviewRequest) {
	if req.MaxConcurrency > 0 {
		cfg.Performance.MaxGoroutines = req.MaxConcurrency
	}
	cfg.Output.FullReport = domain.BoolValue(req.FullReport, cfg.Output.FullReport)
	if req.ReportPath != "" {
		cfg.Output.ReportPath = req.ReportPath
	}
	if req.OutputFormat != "" {
		cfg.Output.Format = string(req.OutputFormat)
	}
	if req.ToolTimeoutSeconds > 0 {
		cfg.Tools.TimeoutSeconds = req.ToolTimeoutSeconds
	}
}

// buildTasks assembles the concurrent units of one run: the bounded
// per-file heuristic sweep plus the repo-wide external tool invocations
func (uc *ReviewUseCase) buildTasks(
	state *runState,
	eslint *toolrunner.ESLintRunner,
	tsc *toolrunner.TscRunner,
	knip *toolrunner.KnipRunner,
	jscpd *toolrunner.JscpdRunner,
) []domain.ExecutableTask {
	cfg := state.cfg
	absFiles := make([]string, len(state.tasks))
	for i, t := range state.tasks {
		absFiles[i] = t.AbsPath
	}

	testConfigPath := filepath.Join(state.projectRoot, cfg.Tools.Compiler.TestConfig)
	testConfigPresent := fileExists(testConfigPath)
	if cfg.Tools.Compiler.Enabled && !testConfigPresent {
		state.warn("no test compiler configuration found; test compile gate skipped")
	}
	appConfigPresent := fileExists(filepath.Join(state.projectRoot, cfg.Tools.Compiler.AppConfig))
	if cfg.Tools.Compiler.Enabled && !appConfigPresent {
		state.warn("no compiler configuration found; compile gates skipped")
	}

	return []domain.ExecutableTask{
		&toolTask{
			name:    "heuristic checks",
			enabled: len(state.tasks) > 0,
			run: func(ctx context.Context) error {
				return uc.runAnalyzers(ctx, state)
			},
		},
		&toolTask{
			name:    "lint (files)",
			enabled: cfg.Tools.ESLint.Enabled && len(absFiles) > 0,
			run: func(ctx context.Context) error {
				out, err := eslint.RunFiles(ctx, state.projectRoot, absFiles)
				if err != nil {
					return err
				}
				state.outputs.Lint = out
				return nil
			},
		},
		&toolTask{
			name:    "lint (tree)",
			enabled: cfg.Tools.ESLint.Enabled,
			run: func(ctx context.Context) error {
				out, err := eslint.RunTree(ctx, state.projectRoot)
				if err != nil {
					return err
				}
				state.outputs.RepoLint = out
				return nil
			},
		},
		&toolTask{
			name:    "compiler (app)",
			enabled: cfg.Tools.Compiler.Enabled && appConfigPresent,
			run: func(ctx context.Context) error {
				out, err := tsc.Run(ctx, state.projectRoot, cfg.Tools.Compiler.AppConfig)
				if err != nil {
					return err
				}
				state.outputs.CompilerApp = out
				return nil
			},
		},
		&toolTask{
			name:    "compiler (test)",
			enabled: cfg.Tools.Compiler.Enabled && appConfigPresent && testConfigPresent,
			run: func(ctx context.Context) error {
				out, err := tsc.Run(ctx, state.projectRoot, cfg.Tools.Compiler.TestConfig)
				if err != nil {
					return err
				}
				state.outputs.CompilerTest = out
				return nil
			},
		},
		&toolTask{
			name:    "dead code",
			enabled: cfg.Tools.DeadCode.Enabled,
			run: func(ctx context.Context) error {
				out, err := knip.Run(ctx, state.projectRoot)
				if err != nil {
					return err
				}
				state.outputs.DeadCode = out
				return nil
			},
		},
		&toolTask{
			name:    "duplication",
			enabled: cfg.Tools.Duplication.Enabled,
			run: func(ctx context.Context) error {
				out, err := jscpd.Run(ctx, state.projectRoot)
				if err != nil {
					return err
				}
				state.outputs.Duplicates = out
				return nil
			},
		},
	}
}

// runAnalyzers performs the bounded per-file heuristic sweep. Analyzer
// panics degrade to an empty verdict; file read failures fail the run.
func (uc *ReviewUseCase) runAnalyzers(ctx context.Context, state *runState) error {
	checks := state.cfg.Checks

	var analyzers []domain.FileAnalyzer
	if checks.Size {
		analyzers = append(analyzers, analyzer.NewSizeAnalyzer(checks.MaxFileLines))
	}
	if checks.Comments {
		analyzers = append(analyzers, analyzer.NewCommentAnalyzer(checks.AllowedCommentMarkers))
	}
	if checks.Console {
		analyzers = append(analyzers, analyzer.NewConsoleAnalyzer())
	}
	if checks.Fallback {
		analyzers = append(analyzers, analyzer.NewFallbackAnalyzer())
	}
	if checks.Framework {
		analyzers = append(analyzers, analyzer.NewFrameworkAnalyzer())
	}
	if checks.Annotations {
		analyzers = append(analyzers, analyzer.NewAnnotationAnalyzer())
	}

	disabled := disabledHeuristics(checks)

	return state.executor.ForEach(ctx, len(state.tasks), func(ctx context.Context, i int) error {
		content, err := state.cache.Read(state.tasks[i].AbsPath)
		if err != nil {
			return domain.NewAnalysisError("failed to read "+state.tasks[i].RelPath, err)
		}
		for _, a := range analyzers {
			state.results[i].Set(a.Name(), analyzer.RunSafe(a, content))
		}
		for _, cat := range disabled {
			state.results[i].Skip(cat)
		}
		return nil
	})
}

func disabledHeuristics(checks config.ChecksConfig) []domain.Category {
	var disabled []domain.Category
	if !checks.Size {
		disabled = append(disabled, domain.CategorySize)
	}
	if !checks.Comments {
		disabled = append(disabled, domain.CategoryComments)
	}
	if !checks.Console {
		disabled = append(disabled, domain.CategoryConsole)
	}
	if !checks.Fallback {
		disabled = append(disabled, domain.CategoryFallback)
	}
	if !checks.Framework {
		disabled = append(disabled, domain.CategoryFramework)
	}
	if !checks.Annotations {
		disabled = append(disabled, domain.CategoryAnnotations)
	}
	return disabled
}

// mergeResults attaches the tool outputs to per-file categories and
// aggregates the repo-wide gates
func (uc *ReviewUseCase) mergeResults(ctx context.Context, state *runState) (*domain.RepoResult, error) {
	repo := &domain.RepoResult{}

	uc.attachLint(state, repo)
	uc.attachCompiler(state, repo)

	merger := service.NewMergeService(state.projectRoot, state.cache, state.executor, state.cfg.Tools.Duplication.TopGroups)

	deadCode, err := merger.MergeDeadCode(ctx, state.outputs.DeadCode, state.results)
	if err != nil {
		return nil, err
	}
	repo.DeadCode = deadCode
	repo.Duplication = merger.MergeDuplicates(state.outputs.Duplicates, state.results)

	repo.Warnings = state.sortedWarnings()
	return repo, nil
}

// attachLint records the per-file lint category from the batch run and
// the repo-wide error counts from the tree gate. Error-severity
// messages fail a file; warnings only aggregate.
func (uc *ReviewUseCase) attachLint(state *runState, repo *domain.RepoResult) {
	lint := state.outputs.Lint
	switch {
	case lint == nil:
		for _, r := range state.results {
			r.Skip(domain.CategoryLint)
		}
	case lint.Skipped:
		state.warn(lint.Warning)
		repo.LintSkipped = true
		for _, r := range state.results {
			r.Skip(domain.CategoryLint)
		}
	default:
		for _, r := range state.results {
			var violations []domain.Violation
			for _, m := range lint.Files[r.Task.AbsPath] {
				if m.Severity != domain.LintSeverityError {
					continue
				}
				violations = append(violations, domain.Violation{
					Line:    m.Line,
					Column:  m.Column,
					Rule:    m.RuleID,
					Message: m.Message,
					Fixable: m.Fixable,
				})
			}
			r.Set(domain.CategoryLint, violations)
		}
	}

	tree := state.outputs.RepoLint
	if tree == nil || tree.Skipped {
		if tree != nil && tree.Skipped {
			repo.LintSkipped = true
			state.warn(tree.Warning)
		}
		return
	}
	for _, messages := range tree.Files {
		for _, m := range messages {
			if m.Severity == domain.LintSeverityError {
				repo.LintErrors++
			} else {
				repo.LintWarnings++
			}
		}
	}
}

// attachCompiler records the per-file compiler category from both
// diagnostic runs and the repo-wide error counts
func (uc *ReviewUseCase) attachCompiler(state *runState, repo *domain.RepoResult) {
	app := state.outputs.CompilerApp
	test := state.outputs.CompilerTest

	if app == nil && test == nil {
		for _, r := range state.results {
			r.Skip(domain.CategoryCompiler)
		}
		return
	}

	perFile := make(map[string][]domain.Violation)
	collect := func(out *domain.CompilerOutput) {
		if out == nil {
			return
		}
		for _, d := range out.Diagnostics {
			rel := relKey(state.projectRoot, d.File)
			perFile[rel] = append(perFile[rel], domain.Violation{
				Line:    d.Line,
				Column:  d.Column,
				Rule:    d.Code,
				Message: d.Message,
			})
		}
	}
	collect(app)
	collect(test)

	for _, r := range state.results {
		r.Set(domain.CategoryCompiler, perFile[r.Task.RelPath])
	}

	if app != nil {
		repo.CompilerAppErrors = len(app.Diagnostics) + len(app.GlobalErrors)
		if app.UnknownLines > 0 {
			state.warn("compiler (app) emitted unrecognized output lines")
			repo.CompilerAppErrors += app.UnknownLines
		}
	}
	if test != nil {
		repo.CompilerTestErrors = len(test.Diagnostics) + len(test.GlobalErrors)
		if test.UnknownLines > 0 {
			state.warn("compiler (test) emitted unrecognized output lines")
			repo.CompilerTestErrors += test.UnknownLines
		}
	}
}

func relKey(projectRoot, p string) string {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(projectRoot, p); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
