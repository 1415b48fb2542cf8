package toolrunner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludo-technologies/tsreview/domain"
)

// knipSymbol mirrors the dead-code detector's native symbol shape
type knipSymbol struct {
	Name string `json:"name"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// knipIssue mirrors the detector's native per-file issue shape
type knipIssue struct {
	File         string                  `json:"file"`
	Exports      []knipSymbol            `json:"exports"`
	Types        []knipSymbol            `json:"types"`
	EnumMembers  map[string][]knipSymbol `json:"enumMembers"`
	ClassMembers map[string][]knipSymbol `json:"classMembers"`
	Unresolved   []knipSymbol            `json:"unresolved"`
	Unlisted     []knipSymbol            `json:"unlisted"`
}

// knipReport mirrors the detector's native top-level JSON shape
type knipReport struct {
	Files  []string    `json:"files"`
	Issues []knipIssue `json:"issues"`
}

// KnipRunner invokes the dead-code detector and adapts its JSON report
type KnipRunner struct {
	runner *CommandRunner
	binary string
}

// NewKnipRunner creates a dead-code detector runner
func NewKnipRunner(runner *CommandRunner, binary string) *KnipRunner {
	if binary == "" {
		binary = "knip"
	}
	return &KnipRunner{runner: runner, binary: binary}
}

// Run executes the detector over the whole project. The detector exits
// non-zero when it finds anything, so the JSON recovery path is the
// normal path.
func (k *KnipRunner) Run(ctx context.Context, projectRoot string) (*domain.DeadCodeOutput, error) {
	result, err := k.runner.Run(ctx, projectRoot, k.binary, "--reporter", "json")
	if err != nil {
		return nil, err
	}

	out, parseErr := parseKnipJSON(result.Stdout)
	if parseErr != nil {
		return nil, domain.NewToolError(
			fmt.Sprintf("dead-code detector exited with code %d and unparsable output", result.ExitCode),
			parseErr)
	}
	return out, nil
}

func parseKnipJSON(stdout string) (*domain.DeadCodeOutput, error) {
	var report knipReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		return nil, err
	}

	out := &domain.DeadCodeOutput{UnusedFiles: report.Files}
	for _, issue := range report.Issues {
		file := domain.DeadCodeFileReport{
			FilePath:      issue.File,
			UnusedExports: toSymbolRefs(issue.Exports),
			UnusedTypes:   toSymbolRefs(issue.Types),
		}
		for owner, members := range issue.EnumMembers {
			for _, m := range members {
				file.UnusedEnumMembers = append(file.UnusedEnumMembers, domain.SymbolRef{
					Name: owner + "." + m.Name, Line: m.Line, Column: m.Col,
				})
			}
		}
		for owner, members := range issue.ClassMembers {
			for _, m := range members {
				file.UnusedClassMembers = append(file.UnusedClassMembers, domain.SymbolRef{
					Name: owner + "." + m.Name, Line: m.Line, Column: m.Col,
				})
			}
		}
		for _, u := range issue.Unresolved {
			file.UnresolvedImports = append(file.UnresolvedImports, u.Name)
		}
		for _, u := range issue.Unlisted {
			file.UnlistedDeps = append(file.UnlistedDeps, u.Name)
		}
		out.Files = append(out.Files, file)
	}
	return out, nil
}

func toSymbolRefs(symbols []knipSymbol) []domain.SymbolRef {
	if len(symbols) == 0 {
		return nil
	}
	refs := make([]domain.SymbolRef, 0, len(symbols))
	for _, s := range symbols {
		refs = append(refs, domain.SymbolRef{Name: s.Name, Line: s.Line, Column: s.Col})
	}
	return refs
}
