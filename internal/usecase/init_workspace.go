package usecase

import (
	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root, mailDomain string, force bool) error {
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root, Domain: mailDomain}, force)
}
