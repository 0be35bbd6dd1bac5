package domain

// WorkspaceSpec describes a working directory to scaffold with sympactl init.
type WorkspaceSpec struct {
	Root   string
	Domain string // rendered into the generated config and examples
}
