// config.go: Process-wide runtime configuration
//
// Configuration precedence, lowest to highest: compiled defaults, rc file,
// environment variables, command-line flags. Flags are applied last by the
// option parser mutating the shared RuntimeConfig value; after parsing the
// configuration is only ever read.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// RuntimeConfig is the shared mutable state of one Vesta process: written
// only during option parsing, read by the logger, the runner and command
// handlers afterwards. The single-writer-then-many-readers discipline makes
// locking unnecessary.
type RuntimeConfig struct {
	MinLevel  Level // minimum diagnostic level
	DryRun    bool  // log external actions instead of running them
	Force     bool  // force mode, consumed by business commands
	StoreDir  string
	StoreFile string
	StorePath string // full path override; wins over StoreDir/StoreFile

	AuditEnabled bool
	AuditDB      string // audit database path; empty selects the default

	LogTimestamps bool
}

// fileConfig mirrors the optional YAML rc file.
type fileConfig struct {
	StoreDir      string `yaml:"store_dir"`
	StoreFile     string `yaml:"store_file"`
	Store         string `yaml:"store"`
	LogLevel      string `yaml:"log_level"`
	Dry           *bool  `yaml:"dry"`
	Force         *bool  `yaml:"force"`
	Audit         *bool  `yaml:"audit"`
	AuditDB       string `yaml:"audit_db"`
	LogTimestamps *bool  `yaml:"log_timestamps"`
}

// DefaultConfig returns the compiled defaults: INFO verbosity, real
// execution, store under the user's home directory.
func DefaultConfig() *RuntimeConfig {
	dir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".vesta")
	}
	return &RuntimeConfig{
		MinLevel:  LevelInfo,
		StoreDir:  dir,
		StoreFile: DefaultStoreFile,
	}
}

// LoadConfig builds the runtime configuration from defaults, the rc file and
// the environment, in that order. Flags are applied later by the caller.
func LoadConfig() (*RuntimeConfig, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFile(rcPath()); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveStorePath returns the effective store file path.
func (c *RuntimeConfig) ResolveStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return filepath.Join(c.StoreDir, c.StoreFile)
}

// rcPath locates the rc file: VESTA_CONFIG wins, then the XDG config
// directory, then ~/.config.
func rcPath() string {
	if p := os.Getenv("VESTA_CONFIG"); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "vesta", "vesta.yaml")
}

// loadFile overlays values from the YAML rc file at path. A missing file is
// not an error; a malformed one is.
func (c *RuntimeConfig) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, ErrCodeConfigError, "failed to read rc file")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrap(err, ErrCodeConfigError,
			fmt.Sprintf("malformed rc file %s", path))
	}
	if fc.StoreDir != "" {
		c.StoreDir = fc.StoreDir
	}
	if fc.StoreFile != "" {
		c.StoreFile = fc.StoreFile
	}
	if fc.Store != "" {
		c.StorePath = fc.Store
	}
	if fc.LogLevel != "" {
		level, ok := ParseLevel(fc.LogLevel)
		if !ok {
			return errors.New(ErrCodeConfigError,
				fmt.Sprintf("rc file %s: unknown log level %q", path, fc.LogLevel))
		}
		c.MinLevel = level
	}
	if fc.Dry != nil {
		c.DryRun = *fc.Dry
	}
	if fc.Force != nil {
		c.Force = *fc.Force
	}
	if fc.Audit != nil {
		c.AuditEnabled = *fc.Audit
	}
	if fc.AuditDB != "" {
		c.AuditDB = fc.AuditDB
	}
	if fc.LogTimestamps != nil {
		c.LogTimestamps = *fc.LogTimestamps
	}
	return nil
}

// loadEnv overlays values from the environment.
func (c *RuntimeConfig) loadEnv() error {
	if v := os.Getenv("VESTA_STORE_DIR"); v != "" {
		c.StoreDir = v
	}
	if v := os.Getenv("VESTA_STORE_FILE"); v != "" {
		c.StoreFile = v
	}
	if v := os.Getenv("VESTA_STORE"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("VESTA_LOG_LEVEL"); v != "" {
		level, ok := ParseLevel(v)
		if !ok {
			return errors.New(ErrCodeConfigError,
				fmt.Sprintf("VESTA_LOG_LEVEL: unknown log level %q", v))
		}
		c.MinLevel = level
	}
	if v := os.Getenv("VESTA_DRY"); v != "" {
		c.DryRun = envBool(v)
	}
	if v := os.Getenv("VESTA_FORCE"); v != "" {
		c.Force = envBool(v)
	}
	if v := os.Getenv("VESTA_AUDIT"); v != "" {
		c.AuditEnabled = envBool(v)
	}
	if v := os.Getenv("VESTA_AUDIT_DB"); v != "" {
		c.AuditDB = v
	}
	if v := os.Getenv("VESTA_LOG_TIME"); v != "" {
		c.LogTimestamps = envBool(v)
	}
	return nil
}

// envBool accepts the usual spellings of truth.
func envBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "1", "on", "enabled":
		return true
	}
	return false
}
