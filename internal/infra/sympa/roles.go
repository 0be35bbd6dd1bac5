package sympa

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// ListDir is where the manager keeps dump and config files for name.
func (c *Client) ListDir(name string) string {
	return filepath.Join(c.cfg.Paths.ListDataDir, name)
}

// DumpPath is the dump file of one role.
func (c *Client) DumpPath(name string, role domain.Role) string {
	return filepath.Join(c.ListDir(name), role.DumpFile())
}

// DumpRoles asks the manager to write member, owner and editor dump files for name.
func (c *Client) DumpRoles(ctx context.Context, name string) error {
	if err := domain.ValidateListName(name); err != nil {
		return err
	}
	_, err := c.run(ctx, cmdDump, []string{cmdDump, rolesArg, c.cfg.ListKey(name)}, nil)
	return err
}

// maxLineBytes bounds a single dump line.
const maxLineBytes = 16 << 20

// ExtractEmails returns the addresses recorded in a dump file.
// Only lines starting with "email " are records; the second field is the address.
// A missing file is an empty role, not an error.
func ExtractEmails(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "sympa.extract_emails",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	emails := []string{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "email ") {
			continue
		}
		if fields := strings.Fields(line); len(fields) >= 2 {
			emails = append(emails, fields[1])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "sympa.extract_emails",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return emails, nil
}

// RoleEmails dumps the list and returns the addresses of one role.
func (c *Client) RoleEmails(ctx context.Context, name string, role domain.Role) ([]string, error) {
	if err := c.DumpRoles(ctx, name); err != nil {
		return nil, err
	}
	return ExtractEmails(c.DumpPath(name, role))
}

// AllRoles dumps the list once and returns every role. No partial map is
// returned on failure.
func (c *Client) AllRoles(ctx context.Context, name string) (domain.RoleMap, error) {
	if err := c.DumpRoles(ctx, name); err != nil {
		return nil, err
	}
	out := domain.RoleMap{}
	for _, role := range domain.AllRoles {
		emails, err := ExtractEmails(c.DumpPath(name, role))
		if err != nil {
			return nil, err
		}
		out[role] = emails
	}
	return out, nil
}

// AddRole pipes the whole content of sourceFile to the add sub-command.
func (c *Client) AddRole(ctx context.Context, name string, role domain.Role, sourceFile string) error {
	if err := domain.ValidateListName(name); err != nil {
		return err
	}
	b, err := os.ReadFile(sourceFile)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, os.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return &domain.OpError{
			Op:   "sympa.add",
			Kind: kind,
			Path: sourceFile,
			Err:  err,
		}
	}
	input := string(b)
	_, err = c.run(ctx, cmdAdd, []string{cmdAdd, "--quiet", "--role=" + string(role), c.cfg.ListKey(name)}, &input)
	return err
}

// AddRoleAddresses writes addrs to a temporary file (one per line) and adds them.
// The file is removed before returning.
func (c *Client) AddRoleAddresses(ctx context.Context, name string, role domain.Role, addrs []string) error {
	path, cleanup, err := c.writeTemp("sympa_"+string(role)+"s_", ".txt", joinLines(addrs))
	if err != nil {
		return err
	}
	defer cleanup()
	return c.AddRole(ctx, name, role, path)
}

// RemoveRole deletes every current address of role. An empty role is a no-op
// and issues no delete call.
func (c *Client) RemoveRole(ctx context.Context, name string, role domain.Role) error {
	emails, err := c.RoleEmails(ctx, name, role)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}
	input := joinLines(emails)
	_, err = c.run(ctx, cmdDel, []string{cmdDel, "--quiet", "--role=" + string(role), c.cfg.ListKey(name)}, &input)
	return err
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
