package toolrunner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ludo-technologies/tsreview/domain"
)

// DefaultDuplicateMinTokens is the clone-pair token threshold
const DefaultDuplicateMinTokens = 50

// jscpdFileRef mirrors the duplicate detector's native span shape
type jscpdFileRef struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// jscpdDuplicate mirrors the detector's native clone-pair shape
type jscpdDuplicate struct {
	Lines      int          `json:"lines"`
	Tokens     int          `json:"tokens"`
	FirstFile  jscpdFileRef `json:"firstFile"`
	SecondFile jscpdFileRef `json:"secondFile"`
}

// jscpdReport mirrors the detector's native top-level JSON shape
type jscpdReport struct {
	Duplicates []jscpdDuplicate `json:"duplicates"`
	Statistics struct {
		Total struct {
			Percentage float64 `json:"percentage"`
		} `json:"total"`
	} `json:"statistics"`
}

// JscpdRunner invokes the duplicate-code detector and adapts its JSON
// report into clone-pair spans
type JscpdRunner struct {
	runner    *CommandRunner
	binary    string
	minTokens int
}

// NewJscpdRunner creates a duplicate detector runner
func NewJscpdRunner(runner *CommandRunner, binary string, minTokens int) *JscpdRunner {
	if binary == "" {
		binary = "jscpd"
	}
	if minTokens <= 0 {
		minTokens = DefaultDuplicateMinTokens
	}
	return &JscpdRunner{runner: runner, binary: binary, minTokens: minTokens}
}

// Run executes the detector over the whole project tree
func (j *JscpdRunner) Run(ctx context.Context, projectRoot string) (*domain.DuplicateOutput, error) {
	result, err := j.runner.Run(ctx, projectRoot, j.binary,
		"--reporters", "consoleFull,json",
		"--mode", "strict",
		"--min-tokens", strconv.Itoa(j.minTokens),
		"--silent",
		"--output", "-",
		".")
	if err != nil {
		return nil, err
	}

	out, parseErr := parseJscpdJSON(result.Stdout)
	if parseErr != nil {
		return nil, domain.NewToolError(
			fmt.Sprintf("duplicate detector exited with code %d and unparsable output", result.ExitCode),
			parseErr)
	}
	return out, nil
}

func parseJscpdJSON(stdout string) (*domain.DuplicateOutput, error) {
	var report jscpdReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		return nil, err
	}

	out := &domain.DuplicateOutput{Percentage: report.Statistics.Total.Percentage}
	for _, d := range report.Duplicates {
		out.Pairs = append(out.Pairs, domain.DuplicatePair{
			First:  domain.Span{File: d.FirstFile.Name, StartLine: d.FirstFile.Start, EndLine: d.FirstFile.End},
			Second: domain.Span{File: d.SecondFile.Name, StartLine: d.SecondFile.Start, EndLine: d.SecondFile.End},
			Tokens: d.Tokens,
			Lines:  d.Lines,
		})
	}
	return out, nil
}
