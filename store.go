// store.go: Client for the external versioned configuration backend
//
// Vesta does not implement the store itself. Every read and mutation is
// forwarded to git-config against a designated INI file, through the
// execution wrapper so dry-run and diagnostics apply uniformly. Keys are
// dotted hierarchical paths, values are strings, and a key may carry
// multiple values in insertion order.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"
)

// DefaultStoreFile is the store file name created by init when no override
// is configured.
const DefaultStoreFile = "db.ini"

// backendBinary is the external configuration backend Vesta shells out to.
const backendBinary = "git"

// storeHeader is written into a freshly initialized store file.
const storeHeader = "# vesta store\n"

// Store is the narrow contract to the backend: get-all, replace-all, add,
// unset-all, list and names-only list against one file path, plus raw
// forwarding for everything else the backend can do.
type Store struct {
	path string
	run  *Runner
}

// NewStore returns a store client for the file at path.
func NewStore(path string, run *Runner) *Store {
	return &Store{path: path, run: run}
}

// Path returns the store file path this client targets.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the store file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// BackendAvailable reports whether the backend binary is installed.
func BackendAvailable() bool {
	_, err := exec.LookPath(backendBinary)
	return err == nil
}

// Init creates the store file and its directory if absent. Creation is
// idempotent: an existing store is left untouched.
func (s *Store) Init() error {
	if s.Exists() {
		return nil
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, ErrCodeStoreMissing,
			fmt.Sprintf("cannot create store directory %s", dir))
	}
	if err := os.WriteFile(s.path, []byte(storeHeader), 0o644); err != nil {
		return errors.Wrap(err, ErrCodeStoreMissing,
			fmt.Sprintf("cannot create store file %s", s.path))
	}
	return nil
}

// GetAll returns every value recorded for key, in insertion order.
func (s *Store) GetAll(key string) ([]string, error) {
	out, err := s.run.Output(s.argv("--get-all", key)...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ReplaceAll sets key to value, replacing any existing values.
func (s *Store) ReplaceAll(key, value string) error {
	return s.run.Run(s.argv("--replace-all", key, value)...)
}

// Add appends value to key, preserving existing values and their order.
func (s *Store) Add(key, value string) error {
	return s.run.Run(s.argv("--add", key, value)...)
}

// UnsetAll removes key entirely, or only the values matching valuePattern
// when one is given.
func (s *Store) UnsetAll(key, valuePattern string) error {
	argv := []string{"--unset-all", key}
	if valuePattern != "" {
		argv = append(argv, valuePattern)
	}
	return s.run.Run(s.argv(argv...)...)
}

// List returns every key=value line in the store.
func (s *Store) List() ([]string, error) {
	out, err := s.run.Output(s.argv("--list")...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ListNames returns every key name in the store, without values.
func (s *Store) ListNames() ([]string, error) {
	out, err := s.run.Output(s.argv("--list", "--name-only")...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Raw forwards args verbatim to the backend against the store file, with
// output inherited. This is the escape hatch for backend features the
// narrow contract does not cover.
func (s *Store) Raw(args []string) error {
	return s.run.Run(s.argv(args...)...)
}

// argv builds the full backend command vector for the store file.
func (s *Store) argv(args ...string) []string {
	argv := []string{backendBinary, "config", "-f", s.path}
	return append(argv, args...)
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
