package toolrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
)

// The two supported compiler diagnostic line formats:
//
//	src/a.ts(12,5): error TS2322: Type 'x' is not assignable ...
//	src/a.ts:12:5 - error TS2322: Type 'x' is not assignable ...
var (
	tscParenFormat = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\): error (TS\d+): (.*)$`)
	tscColonFormat = regexp.MustCompile(`^(.+?):(\d+):(\d+) - error (TS\d+): (.*)$`)
	tscGlobalError = regexp.MustCompile(`^error (TS\d+): (.*)$`)
	tscVersionLine = regexp.MustCompile(`Version\s+(\S+)`)
)

// TscRunner invokes compiler no-emit diagnostic runs
type TscRunner struct {
	runner *CommandRunner
	binary string
}

// NewTscRunner creates a compiler diagnostics runner
func NewTscRunner(runner *CommandRunner, binary string) *TscRunner {
	if binary == "" {
		binary = "tsc"
	}
	return &TscRunner{runner: runner, binary: binary}
}

// CheckVersionParity compares the project-local compiler version against
// the orchestrator's own. On mismatch the whole run is aborted with an
// explicit remediation message, because mismatched compilers emit
// misleading diagnostics.
func (t *TscRunner) CheckVersionParity(ctx context.Context, projectRoot string) error {
	projectBin := filepath.Join(projectRoot, "node_modules", ".bin", "tsc")
	if _, err := os.Stat(projectBin); err != nil {
		// No project-local compiler installed; nothing to compare.
		return nil
	}

	projectVersion, err := t.probeVersion(ctx, projectRoot, projectBin)
	if err != nil {
		return err
	}
	ownVersion, err := t.probeVersion(ctx, projectRoot, t.binary)
	if err != nil {
		return err
	}

	if projectVersion != ownVersion {
		return domain.NewPreconditionError(
			fmt.Sprintf("compiler version mismatch: project uses %s, reviewer toolchain uses %s; "+
				"align the versions (npm install typescript@%s) before reviewing",
				projectVersion, ownVersion, projectVersion), nil)
	}
	return nil
}

func (t *TscRunner) probeVersion(ctx context.Context, dir, binary string) (string, error) {
	result, err := t.runner.Run(ctx, dir, binary, "--version")
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", domain.NewToolError(
			fmt.Sprintf("%s --version exited with code %d", binary, result.ExitCode), nil)
	}
	m := tscVersionLine.FindStringSubmatch(result.Stdout)
	if m == nil {
		return "", domain.NewToolError(
			fmt.Sprintf("could not parse compiler version from %q", strings.TrimSpace(result.Stdout)), nil)
	}
	return m[1], nil
}

// Run performs a no-emit diagnostics run against configPath. A zero exit
// yields an empty output; a non-zero exit is parsed line by line, and
// any unmatched line is conservatively counted rather than discarded.
func (t *TscRunner) Run(ctx context.Context, projectRoot, configPath string) (*domain.CompilerOutput, error) {
	result, err := t.runner.Run(ctx, projectRoot, t.binary, "--noEmit", "-p", configPath)
	if err != nil {
		return nil, err
	}

	if result.ExitCode == 0 {
		return &domain.CompilerOutput{}, nil
	}

	out := ParseCompilerDiagnostics(result.Stdout)
	if out.Clean() {
		// Non-zero exit with nothing parsable anywhere is an
		// infrastructure failure, not a diagnostics result.
		return nil, domain.NewToolError(
			fmt.Sprintf("compiler exited with code %d without diagnostics: %s",
				result.ExitCode, strings.TrimSpace(result.Stderr)), nil)
	}
	return out, nil
}

// ParseCompilerDiagnostics parses line-oriented compiler output in the
// two supported formats plus the global (file-less) error form
func ParseCompilerDiagnostics(stdout string) *domain.CompilerOutput {
	out := &domain.CompilerOutput{}

	for _, raw := range strings.Split(stdout, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Continuation/summary lines from pretty output are noise.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "Found ") {
			continue
		}

		if m := tscParenFormat.FindStringSubmatch(line); m != nil {
			out.Diagnostics = append(out.Diagnostics, diagnosticFromMatch(m))
			continue
		}
		if m := tscColonFormat.FindStringSubmatch(line); m != nil {
			out.Diagnostics = append(out.Diagnostics, diagnosticFromMatch(m))
			continue
		}
		if m := tscGlobalError.FindStringSubmatch(line); m != nil {
			out.GlobalErrors = append(out.GlobalErrors, fmt.Sprintf("%s: %s", m[1], m[2]))
			continue
		}

		out.UnknownLines++
	}

	return out
}

func diagnosticFromMatch(m []string) domain.CompilerDiagnostic {
	line, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	return domain.CompilerDiagnostic{
		File:    m[1],
		Line:    line,
		Column:  col,
		Code:    m[4],
		Message: m[5],
	}
}
