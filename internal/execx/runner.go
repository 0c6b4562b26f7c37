// Package execx wraps external tool invocation behind a narrow interface so
// the orchestration code can be tested against a fake without the real
// toolchain installed.
package execx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// Result captures the outcome of a finished external command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output joins captured stdout and stderr for console diagnosis.
func (r Result) Output() string {
	return strings.TrimSpace(string(r.Stdout) + string(r.Stderr))
}

// Runner executes an external command in a working directory and reports
// its exit status and captured output.
//
// The returned error is non-nil only when the command could not be started
// at all (for example a missing executable); a command that ran and exited
// non-zero is reported through Result.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// CmdRunner is the os/exec-backed Runner used outside of tests.
type CmdRunner struct {
	Logger *slog.Logger
}

// NewCmdRunner creates a CmdRunner that logs each invocation through logger.
func NewCmdRunner(logger *slog.Logger) *CmdRunner {
	return &CmdRunner{Logger: logger}
}

// Run executes name with args, blocking until the process exits.
func (r *CmdRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	r.Logger.Debug("running command",
		slog.String("command", name),
		slog.String("args", strings.Join(args, " ")),
		slog.String("dir", dir))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		r.Logger.Debug("command exited non-zero",
			slog.String("command", name),
			slog.Int("exit_code", res.ExitCode))
		return res, nil
	default:
		return res, err
	}
}
