package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid config")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidName      = errors.New("invalid list name")
	ErrExecution        = errors.New("execution error")
	ErrCommandFailed    = errors.New("command failed")
	ErrSnapshotMismatch = errors.New("snapshot belongs to another list")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindInvalidFormat ErrorKind = "invalid_format"
	KindInvalidName   ErrorKind = "invalid_name"
	KindExecution     ErrorKind = "execution"
	KindCommand       ErrorKind = "command"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CommandError is the diagnostic for a list manager sub-command that exited non-zero.
// It keeps both output streams so the caller can report them verbatim.
type CommandError struct {
	Command  string // sub-command name, e.g. "export_list"
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s failed rc=%d", e.Command, e.Command, e.ExitCode)
	b.WriteString("\nSTDOUT:\n")
	b.WriteString(e.Stdout)
	b.WriteString("\nSTDERR:\n")
	b.WriteString(e.Stderr)
	return b.String()
}

// Is makes errors.Is(err, ErrCommandFailed) match any CommandError.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// IsKind helps callers classify errors without depending on infra packages.
// A CommandError anywhere in the chain is KindCommand.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) && oe.Kind == kind {
		return true
	}
	if kind == KindCommand {
		var ce *CommandError
		return errors.As(err, &ce)
	}
	return false
}
