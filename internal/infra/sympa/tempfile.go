package sympa

import (
	"os"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// tempFileMode keeps temp files readable by the manager when it runs as another user.
const tempFileMode = 0o644

// writeTemp creates a private temp file holding content. cleanup removes it
// and ignores errors.
func (c *Client) writeTemp(prefix, suffix, content string) (string, func(), error) {
	f, err := os.CreateTemp(c.tempDir, prefix+"*"+suffix)
	if err != nil {
		return "", nil, &domain.OpError{
			Op:   "sympa.tempfile",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(path, tempFileMode)
	}
	if werr != nil {
		cleanup()
		return "", nil, &domain.OpError{
			Op:   "sympa.tempfile",
			Kind: domain.KindExecution,
			Path: path,
			Err:  werr,
		}
	}
	return path, cleanup, nil
}
