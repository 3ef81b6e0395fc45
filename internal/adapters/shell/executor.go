// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. Step commands are opaque
// strings handed to the shell; exit status zero is success, anything else is
// a step failure.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the step's command in the environment's workspace.
//
// The command inherits the process environment plus the job context
// variables LOOM_RUNNER, LOOM_WORKSPACE and LOOM_STEP. Combined output is
// streamed line-wise to the logger and copied to out.
func (e *Executor) Execute(ctx context.Context, env ports.Environment, step domain.Step, out io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", step.Command) //nolint:gosec // user provided command
	cmd.Dir = env.WorkDir()
	cmd.Env = append(os.Environ(),
		"LOOM_RUNNER="+env.Runner(),
		"LOOM_WORKSPACE="+env.WorkDir(),
		"LOOM_STEP="+step.Name,
	)

	cmd.Stdout = io.MultiWriter(out, &logWriter{logger: e.logger, level: "info"})
	cmd.Stderr = io.MultiWriter(out, &logWriter{logger: e.logger, level: "error"})

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stepErr := zerr.Wrap(domain.ErrStepFailed, "command exited non-zero")
			stepErr = zerr.With(stepErr, "exit_code", exitErr.ExitCode())
			return zerr.With(stepErr, "command", step.Command)
		}
		return zerr.With(zerr.Wrap(err, "command could not run"), "command", step.Command)
	}

	return nil
}

// logWriter splits writes into lines before handing them to the logger.
// Writes may carry partial lines; the trailing newline is trimmed so the
// logger sees one message per line.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSuffix(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}
	for _, line := range strings.Split(msg, "\n") {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
