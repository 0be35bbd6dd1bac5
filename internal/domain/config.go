package domain

import (
	"errors"
	"strings"
)

// Config represents the sympactl configuration loaded from sympactl.yaml.
type Config struct {
	// Domain is the robot domain lists live under (list@domain).
	Domain string
	// SympaCmd is the list manager binary.
	SympaCmd string

	Paths    PathsConfig
	Defaults DefaultsConfig
	Log      LogConfig
}

type PathsConfig struct {
	// ListDataDir holds <list>/<role>.dump and config files written by the manager.
	ListDataDir string
	// ListFileDir holds <list>.list membership definitions.
	ListFileDir string
	ReportsDir  string
	LogDir      string
}

type DefaultsConfig struct {
	ListType string
	Language string
}

// LogConfig bounds the rotated log file.
type LogConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig provides sane defaults if sympactl.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		SympaCmd: "/usr/sbin/sympa",
		Paths: PathsConfig{
			ListDataDir: "/var/lib/sympa/list_data",
			ListFileDir: "lists",
			ReportsDir:  "reports",
			LogDir:      ".sympactl/logs",
		},
		Defaults: DefaultsConfig{
			ListType: "public_web_forum",
			Language: "ja",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// ListKey returns the fully-qualified list key name@domain.
func (c Config) ListKey(name string) string {
	return name + "@" + c.Domain
}

// Validate checks the fields every external call depends on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Domain) == "" {
		errs = append(errs, errors.New("domain is required"))
	}
	if strings.TrimSpace(c.SympaCmd) == "" {
		errs = append(errs, errors.New("sympa_cmd is required"))
	}
	if strings.TrimSpace(c.Paths.ListDataDir) == "" {
		errs = append(errs, errors.New("paths.listdata_dir is required"))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log limits must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return &OpError{
		Op:   "config.validate",
		Kind: KindInvalidConfig,
		Err:  errors.Join(append(errs, ErrInvalidConfig)...),
	}
}
