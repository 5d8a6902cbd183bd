package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// CommandError reports an external client tool that was missing, timed
// out, or exited nonzero. The captured stderr carries the tool's own
// message.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *CommandError) Error() string {
	line := commandLine(e.Command, e.Args)
	switch {
	case e.TimedOut:
		return fmt.Sprintf("%s timed out", line)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", line, e.Err)
	default:
		msg := fmt.Sprintf("%s exited with code %d", line, e.ExitCode)
		if s := strings.TrimSpace(e.Stderr); s != "" {
			msg += ": " + s
		}
		return msg
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// RunResult carries the captured output of a completed external command.
type RunResult struct {
	Stdout string
	Stderr string
}

// Runner executes an external command with an optional stdin payload and
// a hard timeout. Both orchestrators and the diagnostics probe go through
// this single seam, which makes external tooling injectable in tests.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte, timeout time.Duration, scrubEnv []string) (RunResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run executes name with args, feeding stdin when non-nil, and enforces
// the timeout via context cancellation. scrubEnv names environment
// variables removed from the child environment. A launch failure,
// timeout, or nonzero exit returns a *CommandError.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte, timeout time.Duration, scrubEnv []string) (RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	if len(scrubEnv) > 0 {
		cmd.Env = scrubbedEnv(scrubEnv)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	cmdErr := &CommandError{
		Command: name,
		Args:    args,
		Stderr:  res.Stderr,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cmdErr.TimedOut = true
		return res, cmdErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	} else {
		cmdErr.Err = err
	}
	return res, cmdErr
}

// scrubbedEnv returns the process environment without the named variables.
func scrubbedEnv(names []string) []string {
	env := os.Environ()
	out := env[:0:0]
	for _, kv := range env {
		skip := false
		for _, name := range names {
			if strings.HasPrefix(kv, name+"=") {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, kv)
		}
	}
	return out
}

// commandLine renders a command and its arguments for display.
func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
