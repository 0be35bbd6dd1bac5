// Package sympa drives the Sympa command line to inspect and change mailing lists.
//
// Every method validates the list name before the first external call and
// reports a non-zero exit as a *domain.CommandError carrying both output
// streams.
package sympa

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// Sub-command names used in diagnostics.
const (
	cmdExportList = "export_list"
	cmdPurgeList  = "purge_list"
	cmdCloseList  = "close_list"
	cmdCreateList = "create_list"
	cmdAdd        = "add"
	cmdDel        = "del"
	cmdDump       = "dump"
	cmdRestore    = "restore"
)

// rolesArg selects every role for dump and restore.
var rolesArg = "--roles=" + joinRoles(domain.AllRoles)

func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

type Client struct {
	cfg     domain.Config
	runner  ports.CommandRunner
	tempDir string
	logger  *slog.Logger
}

type Option func(*Client)

// WithTempDir sets where manifests, role files and snapshots are created.
// Empty means the OS default.
func WithTempDir(dir string) Option {
	return func(c *Client) { c.tempDir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(cfg domain.Config, runner ports.CommandRunner, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		runner: runner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.ListManager = (*Client)(nil)

// ListExists reports whether name appears in the domain's list export.
func (c *Client) ListExists(ctx context.Context, name string) (bool, error) {
	if err := domain.ValidateListName(name); err != nil {
		return false, err
	}
	inv, err := c.run(ctx, cmdExportList, []string{cmdExportList, c.cfg.Domain}, nil)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(inv.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// AllLists returns every non-blank line of the domain's list export.
func (c *Client) AllLists(ctx context.Context) ([]string, error) {
	inv, err := c.run(ctx, cmdExportList, []string{cmdExportList, c.cfg.Domain}, nil)
	if err != nil {
		return nil, err
	}
	lists := []string{}
	for _, line := range strings.Split(inv.Stdout, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lists = append(lists, s)
		}
	}
	return lists, nil
}

func (c *Client) PurgeList(ctx context.Context, name string) error {
	if err := domain.ValidateListName(name); err != nil {
		return err
	}
	_, err := c.run(ctx, cmdPurgeList, []string{"--purge_list", c.cfg.ListKey(name)}, nil)
	return err
}

func (c *Client) CloseList(ctx context.Context, name string) error {
	if err := domain.ValidateListName(name); err != nil {
		return err
	}
	_, err := c.run(ctx, cmdCloseList, []string{"--close_list", c.cfg.ListKey(name)}, nil)
	return err
}

// CreateList runs the creation sub-command on an XML manifest and returns its stdout.
func (c *Client) CreateList(ctx context.Context, manifestPath string) (string, error) {
	inv, err := c.run(ctx, cmdCreateList, []string{
		"--create_list", "--robot", c.cfg.Domain, "--input_file", manifestPath,
	}, nil)
	if err != nil {
		return "", err
	}
	return inv.Stdout, nil
}

func (c *Client) run(ctx context.Context, sub string, args []string, stdin *string) (domain.Invocation, error) {
	inv, err := c.runner.Invoke(ctx, args, stdin)
	if err != nil {
		return inv, &domain.OpError{
			Op:   "sympa." + sub,
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	if !inv.Success() {
		c.logger.Warn("sympa.command_failed", "command", sub, "args", args, "exit_code", inv.ExitCode)
		return inv, &domain.CommandError{
			Command:  sub,
			Args:     args,
			ExitCode: inv.ExitCode,
			Stdout:   inv.Stdout,
			Stderr:   inv.Stderr,
		}
	}
	return inv, nil
}
