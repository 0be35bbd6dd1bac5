package sympa

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/sympactl/internal/domain"
)

const testDomain = "lists.example.org"

type call struct {
	args  []string
	stdin string
}

// fakeRunner answers sub-commands from a table and records every call.
// Unknown sub-commands succeed with empty output.
type fakeRunner struct {
	calls   []call
	replies map[string]domain.Invocation
	// onDump runs when a dump sub-command is invoked (e.g., to write dump files).
	onDump func()
	err    error
}

func (f *fakeRunner) Invoke(_ context.Context, args []string, stdin *string) (domain.Invocation, error) {
	c := call{args: append([]string(nil), args...)}
	if stdin != nil {
		c.stdin = *stdin
	}
	f.calls = append(f.calls, c)
	if f.err != nil {
		return domain.Invocation{}, f.err
	}

	sub := subcommand(args)
	if sub == "dump" && f.onDump != nil {
		f.onDump()
	}
	if inv, ok := f.replies[sub]; ok {
		inv.Args = args
		return inv, nil
	}
	return domain.Invocation{Args: args}, nil
}

func (f *fakeRunner) subcommands() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, subcommand(c.args))
	}
	return out
}

func (f *fakeRunner) count(sub string) int {
	n := 0
	for _, c := range f.calls {
		if subcommand(c.args) == sub {
			n++
		}
	}
	return n
}

// subcommand normalizes "--purge_list" style flags to plain names.
func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimPrefix(args[0], "--")
}

func newTestClient(t *testing.T, r *fakeRunner) (*Client, domain.Config) {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Domain = testDomain
	cfg.Paths.ListDataDir = filepath.Join(t.TempDir(), "list_data")
	if err := os.MkdirAll(cfg.Paths.ListDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return New(cfg, r, WithTempDir(t.TempDir())), cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
