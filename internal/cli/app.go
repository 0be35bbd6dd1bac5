package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/infra/configfinder"
	"github.com/aalvaropc/sympactl/internal/infra/execrunner"
	"github.com/aalvaropc/sympactl/internal/infra/listfile"
	"github.com/aalvaropc/sympactl/internal/infra/logger"
	"github.com/aalvaropc/sympactl/internal/infra/runstore"
	"github.com/aalvaropc/sympactl/internal/infra/sympa"
)

// appCtx holds the wired dependencies for one command invocation.
type appCtx struct {
	root string
	cfg  domain.Config
	log  *slog.Logger

	lists     *sympa.Client
	defs      *listfile.Loader
	manifests *sympa.ManifestBuilder
	store     *runstore.JSONStore

	cleanup func() error
}

func (a *appCtx) Close() {
	if a.cleanup != nil {
		_ = a.cleanup()
	}
}

// loadApp resolves configuration, starts file logging and wires the
// list manager client.
func loadApp(opts *rootOptions) (*appCtx, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	root, cfg, err := configfinder.Resolve(opts.configPath, wd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Paths.ListDataDir = resolvePath(root, cfg.Paths.ListDataDir)
	cfg.Paths.ListFileDir = resolvePath(root, cfg.Paths.ListFileDir)

	cleanup, lerr := logger.Setup(logger.Config{
		Root:       root,
		Dir:        cfg.Paths.LogDir,
		Debug:      opts.debug,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log := logger.L()
	if lerr != nil {
		// Logging is best effort; the command still runs.
		cleanup = nil
	}

	runner := execrunner.New(cfg.SympaCmd, execrunner.WithLogger(log))

	return &appCtx{
		root:      root,
		cfg:       cfg,
		log:       log,
		lists:     sympa.New(cfg, runner, sympa.WithLogger(log)),
		defs:      listfile.NewLoader(cfg.Paths.ListFileDir),
		manifests: sympa.NewManifestBuilder(cfg),
		store:     runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
		cleanup:   cleanup,
	}, nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
