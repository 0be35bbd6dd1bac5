package ports

import "github.com/aalvaropc/sympactl/internal/domain"

// ManifestBuilder renders the creation manifest for a new list.
type ManifestBuilder interface {
	Build(name, description string, spec domain.MembershipSpec) (string, error)
}
