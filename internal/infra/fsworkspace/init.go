package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/sympactl/internal/app/template"
	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

//go:embed templates
var templatesFS embed.FS

const defaultDomain = "lists.example.org"

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init scaffolds a working directory: sympactl.yaml, an example list
// definition and batch file, and the reports/log directories.
// Existing files are kept unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	mailDomain := strings.TrimSpace(spec.Domain)
	if mailDomain == "" {
		mailDomain = defaultDomain
	}
	vars := map[string]string{"domain": mailDomain}

	dirs := []string{
		filepath.Join(root, "lists"),
		filepath.Join(root, "reports"),
		filepath.Join(root, ".sympactl", "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := ensureGitignore(root); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dst := filepath.Join(root, filepath.FromSlash(targetName(strings.TrimPrefix(p, "templates/"))))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		out, err := template.RenderString(string(b), vars)
		if err != nil {
			return err
		}

		mode := fs.FileMode(0o644)
		if strings.HasPrefix(path.Base(dst), ".env") {
			mode = 0o600
		}
		return os.WriteFile(dst, []byte(out), mode)
	})
}

// targetName maps "dot.x" template files to ".x"; embed skips dotfiles.
func targetName(rel string) string {
	dir, base := path.Split(rel)
	if strings.HasPrefix(base, "dot.") {
		base = "." + strings.TrimPrefix(base, "dot.")
	}
	return dir + base
}

func ensureGitignore(root string) error {
	const header = "# sympactl"
	entries := []string{
		"reports/",
		".sympactl/",
		".env",
	}

	p := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(p, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(p, []byte(out.String()), 0o644)
}
