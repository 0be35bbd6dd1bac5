package configfinder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// Environment variables that override sympactl.yaml.
const (
	EnvDomain      = "SYMPACTL_DOMAIN"
	EnvSympaCmd    = "SYMPACTL_SYMPA_CMD"
	EnvListDataDir = "SYMPACTL_LISTDATA_DIR"
	EnvListFileDir = "SYMPACTL_LISTFILE_DIR"
)

// LoadConfig loads a sympactl.yaml file and applies defaults.
func LoadConfig(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "configfinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "configfinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	s := y.Sympactl
	setIf(&cfg.Domain, s.Domain)
	setIf(&cfg.SympaCmd, s.SympaCmd)
	setIf(&cfg.Paths.ListDataDir, s.Paths.ListDataDir)
	setIf(&cfg.Paths.ListFileDir, s.Paths.ListFileDir)
	setIf(&cfg.Paths.ReportsDir, s.Paths.ReportsDir)
	setIf(&cfg.Paths.LogDir, s.Paths.LogDir)
	setIf(&cfg.Defaults.ListType, s.Defaults.ListType)
	setIf(&cfg.Defaults.Language, s.Defaults.Language)
	setIntIf(&cfg.Log.MaxSizeMB, s.Log.MaxSizeMB)
	setIntIf(&cfg.Log.MaxBackups, s.Log.MaxBackups)
	setIntIf(&cfg.Log.MaxAgeDays, s.Log.MaxAgeDays)

	return cfg, nil
}

// ApplyEnv overlays SYMPACTL_* variables onto cfg. Values from dotenvPath
// are used only where the process environment does not set the variable;
// a missing dotenv file is ignored.
func ApplyEnv(cfg domain.Config, dotenvPath string) (domain.Config, error) {
	fileEnv := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			fileEnv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, &domain.OpError{
				Op:   "configfinder.dotenv",
				Kind: domain.KindInvalidConfig,
				Path: dotenvPath,
				Err:  err,
			}
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}

	setIf(&cfg.Domain, lookup(EnvDomain))
	setIf(&cfg.SympaCmd, lookup(EnvSympaCmd))
	setIf(&cfg.Paths.ListDataDir, lookup(EnvListDataDir))
	setIf(&cfg.Paths.ListFileDir, lookup(EnvListFileDir))
	return cfg, nil
}

// Resolve finds and loads the configuration. An explicit path wins; otherwise
// sympactl.yaml (or sympactl.yml) is searched upward from startDir, and defaults rooted at
// startDir are used when none exists. The returned root anchors relative paths.
func Resolve(explicit, startDir string) (string, domain.Config, error) {
	var (
		root string
		cfg  = domain.DefaultConfig()
		err  error
	)

	switch {
	case explicit != "":
		root = filepath.Dir(explicit)
		if cfg, err = LoadConfig(explicit); err != nil {
			return "", cfg, err
		}
	default:
		var path string
		path, err = FindConfig(startDir)
		switch {
		case err == nil:
			root = filepath.Dir(path)
			if cfg, err = LoadConfig(path); err != nil {
				return "", cfg, err
			}
		case domain.IsKind(err, domain.KindNotFound):
			if root, err = filepath.Abs(startDir); err != nil {
				return "", cfg, err
			}
		default:
			return "", cfg, err
		}
	}

	cfg, err = ApplyEnv(cfg, filepath.Join(root, ".env"))
	if err != nil {
		return "", cfg, err
	}
	return root, cfg, nil
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setIntIf(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

type yamlConfig struct {
	Sympactl struct {
		Domain   string `yaml:"domain"`
		SympaCmd string `yaml:"sympa_cmd"`

		Paths struct {
			ListDataDir string `yaml:"listdata_dir"`
			ListFileDir string `yaml:"listfile_dir"`
			ReportsDir  string `yaml:"reports_dir"`
			LogDir      string `yaml:"log_dir"`
		} `yaml:"paths"`

		Defaults struct {
			ListType string `yaml:"list_type"`
			Language string `yaml:"language"`
		} `yaml:"defaults"`

		Log struct {
			MaxSizeMB  *int `yaml:"max_size_mb"`
			MaxBackups *int `yaml:"max_backups"`
			MaxAgeDays *int `yaml:"max_age_days"`
		} `yaml:"log"`
	} `yaml:"sympactl"`
}
