package ports

import (
	"context"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// CommandRunner invokes the list manager binary once per call.
// A non-zero exit is reported in the Invocation, not as an error.
type CommandRunner interface {
	Invoke(ctx context.Context, args []string, stdin *string) (domain.Invocation, error)
}
