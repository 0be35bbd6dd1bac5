package listfile

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

const fileExt = ".list"

// Loader resolves <name>.list under a fixed directory.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

var _ ports.MembershipLoader = (*Loader)(nil)

// Path returns the definition file location for name.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.dir, name+fileExt)
}

// Load reads and parses the definition for name.
// A missing file is KindNotFound; a malformed one is KindInvalidFormat.
func (l *Loader) Load(name string) (domain.MembershipSpec, error) {
	if err := domain.ValidateListName(name); err != nil {
		return domain.MembershipSpec{}, err
	}
	path := l.Path(name)
	return LoadFile(path)
}

// LoadFile parses the definition file at path.
func LoadFile(path string) (domain.MembershipSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, os.ErrNotExist) {
			kind = domain.KindNotFound
			err = errors.Join(err, domain.ErrNotFound)
		}
		return domain.MembershipSpec{}, &domain.OpError{
			Op:   "listfile.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	spec, err := Parse(f)
	if err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) {
			oe.Path = path
			return domain.MembershipSpec{}, oe
		}
		return domain.MembershipSpec{}, err
	}
	return spec, nil
}
