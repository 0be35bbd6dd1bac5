package ports

import "github.com/aalvaropc/sympactl/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
