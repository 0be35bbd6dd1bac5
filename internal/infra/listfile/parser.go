// Package listfile reads membership definition files (<list>.list).
//
// The format is line oriented:
//
//	# comment
//	[owner]
//	alice@example.org   ; inline comment
//	[member]
//	bob@example.org
//
// Comments start at the first '#' or ';'. Every address must follow one of
// the [owner], [editor] or [member] section markers.
package listfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aalvaropc/sympactl/internal/domain"
)

var sectionRe = regexp.MustCompile(`^\[(owner|editor|member)\]\s*$`)

// maxLineBytes bounds a single definition line.
const maxLineBytes = 16 << 20

// Parse reads a membership definition from r.
func Parse(r io.Reader) (domain.MembershipSpec, error) {
	spec := domain.MembershipSpec{
		Owners:  []string{},
		Editors: []string{},
		Members: []string{},
	}

	var section domain.Role
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		if line == "" {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			section, _ = domain.ParseRole(m[1])
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			return domain.MembershipSpec{}, formatError(lineNo, "unknown section: %s", line)
		}
		if section == "" {
			return domain.MembershipSpec{}, formatError(lineNo, "value before section: %s", line)
		}

		switch section {
		case domain.RoleOwner:
			spec.Owners = append(spec.Owners, line)
		case domain.RoleEditor:
			spec.Editors = append(spec.Editors, line)
		case domain.RoleMember:
			spec.Members = append(spec.Members, line)
		}
	}
	if err := sc.Err(); err != nil {
		return domain.MembershipSpec{}, &domain.OpError{
			Op:   "listfile.parse",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	return spec, nil
}

// Format serializes spec so that Parse(Format(spec)) yields the same spec.
// Empty sections are omitted.
func Format(spec domain.MembershipSpec) string {
	var b strings.Builder
	for _, role := range []domain.Role{domain.RoleOwner, domain.RoleEditor, domain.RoleMember} {
		addrs := spec.Addresses(role)
		if len(addrs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n", role)
		for _, a := range addrs {
			b.WriteString(a)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func stripComment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func formatError(line int, format string, args ...any) error {
	return &domain.OpError{
		Op:   "listfile.parse",
		Kind: domain.KindInvalidFormat,
		Err:  fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), domain.ErrInvalidFormat),
	}
}
