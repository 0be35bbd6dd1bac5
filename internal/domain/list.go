package domain

import (
	"fmt"
	"regexp"
)

// listNamePattern is the identifier rule shared by the batch parser and the manifest generator.
var listNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.+_-]*$`)

// ValidListName reports whether name is a valid list identifier.
func ValidListName(name string) bool {
	return listNamePattern.MatchString(name)
}

// ValidateListName returns a KindInvalidName error when name is not a valid list identifier.
func ValidateListName(name string) error {
	if ValidListName(name) {
		return nil
	}
	return &OpError{
		Op:   "domain.validate_list_name",
		Kind: KindInvalidName,
		Err:  fmt.Errorf("%q: %w", name, ErrInvalidName),
	}
}

// Role is a membership category on a mailing list.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
)

// AllRoles is the order used for dump/restore (--roles=member,owner,editor).
var AllRoles = []Role{RoleMember, RoleOwner, RoleEditor}

// ParseRole maps a section or flag token to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleMember:
		return Role(s), true
	default:
		return "", false
	}
}

// DumpFile is the file name the list manager writes for a role dump.
func (r Role) DumpFile() string {
	return string(r) + ".dump"
}

// MembershipSpec is a parsed membership definition (.list) file.
// Address order follows the file; duplicates are kept.
type MembershipSpec struct {
	Owners  []string
	Editors []string
	Members []string
}

// Addresses returns the sequence for role.
func (m MembershipSpec) Addresses(role Role) []string {
	switch role {
	case RoleOwner:
		return m.Owners
	case RoleEditor:
		return m.Editors
	case RoleMember:
		return m.Members
	default:
		return nil
	}
}

// RoleMap is the current membership of a list, keyed by role.
type RoleMap map[Role][]string
