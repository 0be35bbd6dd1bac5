// Package execrunner invokes the list manager binary and captures its output.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

type Runner struct {
	binary string
	env    []string
	logger *slog.Logger
}

type Option func(*Runner)

// WithEnv sets extra KEY=VALUE pairs appended to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(binary string, opts ...Option) *Runner {
	r := &Runner{
		binary: binary,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.CommandRunner = (*Runner)(nil)

// Invoke runs the binary with args and waits for it to exit.
// stdin, when non-nil, is written to the process as-is.
// A non-zero exit status is returned in the Invocation with a nil error;
// only a failure to start or wait on the process is an error.
func (r *Runner) Invoke(ctx context.Context, args []string, stdin *string) (domain.Invocation, error) {
	inv := domain.Invocation{Args: append([]string(nil), args...)}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}
	if stdin != nil {
		cmd.Stdin = strings.NewReader(*stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	inv.Duration = time.Since(start)
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.logger.Error("exec.start_failed", "binary", r.binary, "args", args, "err", err)
			return inv, &domain.OpError{
				Op:   "execrunner.invoke",
				Kind: domain.KindExecution,
				Path: r.binary,
				Err:  errors.Join(err, domain.ErrExecution),
			}
		}
		inv.ExitCode = exitErr.ExitCode()
	}

	r.logger.Debug("exec.invoked",
		"binary", r.binary,
		"args", args,
		"exit_code", inv.ExitCode,
		"duration_ms", inv.Duration.Milliseconds(),
	)
	return inv, nil
}
