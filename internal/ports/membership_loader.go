package ports

import "github.com/aalvaropc/sympactl/internal/domain"

// MembershipLoader loads the membership definition for a list (e.g., <name>.list on disk).
type MembershipLoader interface {
	Load(name string) (domain.MembershipSpec, error)
}
