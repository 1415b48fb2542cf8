// Package toolrunner invokes the delegated external tools and adapts
// their native output into the shared tool-output value types. Each
// tool's schema stops at its adapter; nothing downstream sees the raw
// formats.
package toolrunner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/ludo-technologies/tsreview/domain"
)

// DefaultToolTimeout bounds one external subprocess invocation
const DefaultToolTimeout = 5 * time.Minute

// ExecResult captures one finished subprocess invocation
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes external tool processes with a hard timeout and
// full output capture. A non-zero exit is NOT an error here: many tools
// exit non-zero to signal "violations found" while still emitting valid
// structured output. Callers perform the parse-on-nonzero recovery.
type CommandRunner struct {
	timeout time.Duration
}

// NewCommandRunner creates a runner with the given per-invocation
// timeout; non-positive values use the default
func NewCommandRunner(timeout time.Duration) *CommandRunner {
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	return &CommandRunner{timeout: timeout}
}

// Run executes name with args in dir and captures its output. The
// returned error is non-nil only for infrastructure failures: missing
// binary, failure to start, or timeout.
func (r *CommandRunner) Run(ctx context.Context, dir, name string, args ...string) (*ExecResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, domain.NewToolError(
			fmt.Sprintf("%s timed out after %s", name, r.timeout), runCtx.Err())
	}

	result := &ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, domain.NewToolError(fmt.Sprintf("failed to run %s", name), err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// LookPath reports whether a binary is resolvable on the current PATH
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
