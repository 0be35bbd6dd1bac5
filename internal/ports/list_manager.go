package ports

import (
	"context"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// Snapshot is a point-in-time copy of a list's dump and config files.
type Snapshot interface {
	ListName() string
	Path() string
	// Discard removes the snapshot. Failures are swallowed.
	Discard()
}

// ListManager is the list operations surface the batch orchestrator drives.
type ListManager interface {
	ListExists(ctx context.Context, name string) (bool, error)
	AllLists(ctx context.Context) ([]string, error)
	RoleEmails(ctx context.Context, name string, role domain.Role) ([]string, error)

	// WriteManifest stores manifest in a private temp file; cleanup removes it.
	WriteManifest(manifest string) (path string, cleanup func(), err error)
	CreateList(ctx context.Context, manifestPath string) (string, error)
	AddRoleAddresses(ctx context.Context, name string, role domain.Role, addrs []string) error
	RemoveRole(ctx context.Context, name string, role domain.Role) error
	PurgeList(ctx context.Context, name string) error
	CloseList(ctx context.Context, name string) error

	Backup(ctx context.Context, name string) (Snapshot, error)
	Restore(ctx context.Context, name string, snap Snapshot) error
}
