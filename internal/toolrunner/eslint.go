package toolrunner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/tsreview/domain"
)

// DefaultLintSubBatchSize splits one logical lint invocation into
// multiple process calls to stay under platform command-length limits
const DefaultLintSubBatchSize = 60

// lintConfigFiles are the discoverable lint engine configurations, in
// lookup order
var lintConfigFiles = []string{
	"eslint.config.js",
	"eslint.config.mjs",
	"eslint.config.cjs",
	".eslintrc.js",
	".eslintrc.cjs",
	".eslintrc.json",
	".eslintrc.yaml",
	".eslintrc.yml",
	".eslintrc",
}

// eslintMessage mirrors the lint engine's native JSON message shape
type eslintMessage struct {
	RuleID   string          `json:"ruleId"`
	Severity int             `json:"severity"`
	Message  string          `json:"message"`
	Line     int             `json:"line"`
	Column   int             `json:"column"`
	Fix      json.RawMessage `json:"fix,omitempty"`
}

// eslintResult mirrors the lint engine's native per-file JSON shape
type eslintResult struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

// ESLintRunner invokes the lint engine in sub-batches and adapts its
// JSON output into the shared lint output shape
type ESLintRunner struct {
	runner        *CommandRunner
	binary        string
	cacheLocation string
	batchSize     int
}

// NewESLintRunner creates a lint engine runner
func NewESLintRunner(runner *CommandRunner, binary, cacheLocation string, batchSize int) *ESLintRunner {
	if binary == "" {
		binary = "eslint"
	}
	if batchSize <= 0 {
		batchSize = DefaultLintSubBatchSize
	}
	return &ESLintRunner{
		runner:        runner,
		binary:        binary,
		cacheLocation: cacheLocation,
		batchSize:     batchSize,
	}
}

// RunFiles lints the given absolute paths in sub-batches and merges the
// parsed maps by absolute path. A failing sub-batch fails the whole
// step; files are never silently dropped.
func (e *ESLintRunner) RunFiles(ctx context.Context, projectRoot string, files []string) (*domain.LintOutput, error) {
	if skipped := e.configAbsent(projectRoot); skipped != nil {
		return skipped, nil
	}

	merged := make(map[string][]domain.LintMessage)
	for start := 0; start < len(files); start += e.batchSize {
		end := start + e.batchSize
		if end > len(files) {
			end = len(files)
		}
		batch, err := e.runBatch(ctx, projectRoot, files[start:end])
		if err != nil {
			return nil, err
		}
		for path, messages := range batch {
			merged[path] = append(merged[path], messages...)
		}
	}

	return &domain.LintOutput{Files: merged}, nil
}

// RunTree lints the whole project tree as a repo-wide gate
func (e *ESLintRunner) RunTree(ctx context.Context, projectRoot string) (*domain.LintOutput, error) {
	if skipped := e.configAbsent(projectRoot); skipped != nil {
		return skipped, nil
	}

	parsed, err := e.runBatch(ctx, projectRoot, []string{"."})
	if err != nil {
		return nil, err
	}
	return &domain.LintOutput{Files: parsed}, nil
}

// configAbsent returns a skipped output with a warning when no lint
// configuration is discoverable in the target project
func (e *ESLintRunner) configAbsent(projectRoot string) *domain.LintOutput {
	for _, name := range lintConfigFiles {
		if _, err := os.Stat(filepath.Join(projectRoot, name)); err == nil {
			return nil
		}
	}
	return &domain.LintOutput{
		Skipped: true,
		Warning: "no lint configuration found; lint checks skipped",
	}
}

func (e *ESLintRunner) runBatch(ctx context.Context, projectRoot string, targets []string) (map[string][]domain.LintMessage, error) {
	args := []string{"--format", "json", "--no-error-on-unmatched-pattern"}
	if e.cacheLocation != "" {
		args = append(args, "--cache", "--cache-location", e.cacheLocation)
	}
	args = append(args, targets...)

	result, err := e.runner.Run(ctx, projectRoot, e.binary, args...)
	if err != nil {
		return nil, err
	}

	// Exit code 1 means "violations found"; the JSON on stdout is still
	// valid. Only an unparsable stdout is an infrastructure failure.
	parsed, parseErr := parseESLintJSON(result.Stdout)
	if parseErr != nil {
		if result.ExitCode != 0 {
			return nil, domain.NewToolError(
				fmt.Sprintf("lint engine exited with code %d and unparsable output", result.ExitCode),
				parseErr)
		}
		return nil, domain.NewToolError("lint engine produced unparsable output", parseErr)
	}

	return parsed, nil
}

func parseESLintJSON(stdout string) (map[string][]domain.LintMessage, error) {
	var results []eslintResult
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.LintMessage)
	for _, r := range results {
		if len(r.Messages) == 0 {
			continue
		}
		messages := make([]domain.LintMessage, 0, len(r.Messages))
		for _, m := range r.Messages {
			messages = append(messages, domain.LintMessage{
				RuleID:   m.RuleID,
				Severity: domain.LintSeverity(m.Severity),
				Message:  m.Message,
				Line:     m.Line,
				Column:   m.Column,
				Fixable:  len(m.Fix) > 0,
			})
		}
		out[r.FilePath] = messages
	}
	return out, nil
}
