package sympa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// snapshotPatterns select the files copied from a list directory.
var snapshotPatterns = []string{"*.dump", "config*"}

// Snapshot is a private temp directory holding a copy of one list's dump and config files.
type Snapshot struct {
	list string
	dir  string
}

var _ ports.Snapshot = (*Snapshot)(nil)

func (s *Snapshot) ListName() string { return s.list }
func (s *Snapshot) Path() string     { return s.dir }

// Discard removes the snapshot directory. Errors are ignored.
func (s *Snapshot) Discard() {
	if s == nil || s.dir == "" {
		return
	}
	_ = os.RemoveAll(s.dir)
}

// Backup dumps name and copies its dump and config files into a new temp directory.
// A list without a data directory yields an empty snapshot.
func (c *Client) Backup(ctx context.Context, name string) (ports.Snapshot, error) {
	if err := c.DumpRoles(ctx, name); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(c.tempDir, "sympa_ml_backup_"+name+"_")
	if err != nil {
		return nil, &domain.OpError{
			Op:   "sympa.backup",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	snap := &Snapshot{list: name, dir: dir}

	src := c.ListDir(name)
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		c.logger.Debug("sympa.backup.empty", "list", name, "dir", src)
		return snap, nil
	}
	if err != nil {
		snap.Discard()
		return nil, &domain.OpError{Op: "sympa.backup", Kind: domain.KindExecution, Path: src, Err: err}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		snap.Discard()
		return nil, &domain.OpError{Op: "sympa.backup", Kind: domain.KindExecution, Path: src, Err: err}
	}
	for _, e := range entries {
		if !snapshotFile(e.Name()) {
			continue
		}
		from := filepath.Join(src, e.Name())
		if err := copyRegularFile(from, filepath.Join(dir, e.Name())); err != nil {
			snap.Discard()
			return nil, &domain.OpError{Op: "sympa.backup", Kind: domain.KindExecution, Path: from, Err: err}
		}
	}

	c.logger.Debug("sympa.backup.created", "list", name, "snapshot", dir)
	return snap, nil
}

// Restore rolls name back to snap: it clears the member, editor and owner
// roles, copies the snapshot files into the list directory and runs the
// restore sub-command. The first failing removal aborts the restore.
func (c *Client) Restore(ctx context.Context, name string, snap ports.Snapshot) error {
	if err := domain.ValidateListName(name); err != nil {
		return err
	}
	if snap == nil || snap.ListName() != name {
		return &domain.OpError{
			Op:   "sympa.restore",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("list %q: %w", name, domain.ErrSnapshotMismatch),
		}
	}
	bdir := snap.Path()
	if info, err := os.Stat(bdir); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return &domain.OpError{
			Op:   "sympa.restore",
			Kind: domain.KindNotFound,
			Path: bdir,
			Err:  errors.Join(err, domain.ErrNotFound),
		}
	}

	for _, role := range []domain.Role{domain.RoleMember, domain.RoleEditor, domain.RoleOwner} {
		if err := c.RemoveRole(ctx, name, role); err != nil {
			return err
		}
	}

	dst := c.ListDir(name)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &domain.OpError{Op: "sympa.restore", Kind: domain.KindExecution, Path: dst, Err: err}
	}
	entries, err := os.ReadDir(bdir)
	if err != nil {
		return &domain.OpError{Op: "sympa.restore", Kind: domain.KindExecution, Path: bdir, Err: err}
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		from := filepath.Join(bdir, e.Name())
		if err := copyRegularFile(from, filepath.Join(dst, e.Name())); err != nil {
			return &domain.OpError{Op: "sympa.restore", Kind: domain.KindExecution, Path: from, Err: err}
		}
	}

	_, err = c.run(ctx, cmdRestore, []string{cmdRestore, rolesArg, c.cfg.ListKey(name)}, nil)
	if err == nil {
		c.logger.Info("sympa.restored", "list", name, "snapshot", bdir)
	}
	return err
}

// snapshotFile matches a bare file name, so glob characters in the data
// directory path never take part in the match.
func snapshotFile(name string) bool {
	for _, pat := range snapshotPatterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// copyRegularFile copies src to dst keeping the permission bits.
// Anything that is not a regular file is skipped.
func copyRegularFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
