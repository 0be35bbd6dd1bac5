package configfinder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// ConfigFileName is the file that marks a sympactl working root.
const ConfigFileName = "sympactl.yaml"

// configNames are tried in order inside each directory.
var configNames = []string{ConfigFileName, "sympactl.yml"}

// FindConfig returns the path of the nearest sympactl config file at or
// above startDir. A startDir naming a regular file searches from its
// directory. The root is filepath.Dir of the result.
func FindConfig(startDir string) (string, error) {
	const op = "configfinder.find"
	if startDir == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("start directory is empty")}
	}

	dir, err := searchStart(startDir)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: startDir, Err: err}
	}

	for {
		if p, ok := configIn(dir); ok {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: startDir, Err: domain.ErrNotFound}
		}
		dir = parent
	}
}

func searchStart(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return abs, nil
	case err != nil:
		return "", err
	case !info.IsDir():
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

// configIn reports the first config file present in dir. Directories
// named like a config file are ignored.
func configIn(dir string) (string, bool) {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
