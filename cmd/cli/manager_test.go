// manager_test.go: Testing CLI wiring, metadata and lifecycle
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agilira/vesta"
)

// newTestCLI builds a manager around a throwaway store directory with
// captured streams.
func newTestCLI(t *testing.T, dir string) (*Manager, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := vesta.DefaultConfig()
	cfg.StoreDir = dir
	var out, diag bytes.Buffer
	m := newManager(cfg, &out, &diag)
	m.run.SetStreams(&out, &diag)
	return m, &out, &diag
}

func TestEveryCommandIsRegisteredWithMetadata(t *testing.T) {
	m, _, _ := newTestCLI(t, t.TempDir())
	commands := []string{
		"init", "add", "rm", "set", "get", "dump", "ls", "db", "help",
		"audit", "audit query", "audit cleanup",
	}
	for _, name := range commands {
		cmd := m.reg.Lookup("", name)
		if cmd == nil {
			t.Errorf("command %q is not registered", name)
			continue
		}
		if cmd.Summary == "" {
			t.Errorf("command %q has no summary", name)
		}
		if cmd.Run == nil {
			t.Errorf("command %q has no handler", name)
		}
	}
}

func TestRootOptionAliases(t *testing.T) {
	m, _, _ := newTestCLI(t, t.TempDir())
	want := map[string]bool{
		"-s": true, "--store": true,
		"-h": true, "--help": true,
		"-n": true, "--dry": true,
		"-f": true, "--force": true,
		"-V": true, "--version": true,
		"-v": true, "--verbose": true,
	}
	declared := make(map[string]bool)
	for _, opt := range m.opts[""].Options() {
		for _, alias := range opt.Aliases {
			declared[alias] = true
		}
	}
	for alias := range want {
		if !declared[alias] {
			t.Errorf("root option %q is not declared", alias)
		}
	}
}

func TestVersionFlagIsTerminal(t *testing.T) {
	m, out, _ := newTestCLI(t, t.TempDir())

	// --bogus after -V must never be parsed.
	status := m.Main([]string{"-V", "--bogus", "get"})
	if status != vesta.ExitOK {
		t.Fatalf("status = %d, want 0", status)
	}
	if out.String() != "vesta "+vesta.Version+"\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestHelpFlagSkipsDispatch(t *testing.T) {
	m, out, _ := newTestCLI(t, t.TempDir())

	status := m.Main([]string{"-h"})
	if status != vesta.ExitOK {
		t.Fatalf("status = %d, want 0", status)
	}
	if !strings.Contains(out.String(), "Usage: vesta") ||
		!strings.Contains(out.String(), "Commands:") {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestNoCommandShowsHelpAndFails(t *testing.T) {
	m, out, _ := newTestCLI(t, t.TempDir())

	status := m.Main(nil)
	if status != vesta.ExitUsage {
		t.Fatalf("status = %d, want %d", status, vesta.ExitUsage)
	}
	if !strings.Contains(out.String(), "Commands:") {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestUnknownCommandStatus(t *testing.T) {
	m, _, diag := newTestCLI(t, t.TempDir())

	status := m.Main([]string{"frobnicate"})
	if status != vesta.ExitUnknownCommand {
		t.Fatalf("status = %d, want %d", status, vesta.ExitUnknownCommand)
	}
	if !strings.Contains(diag.String(), `unknown command "frobnicate"`) {
		t.Fatalf("stderr = %q", diag.String())
	}
}

func TestUnknownOptionStatus(t *testing.T) {
	m, _, diag := newTestCLI(t, t.TempDir())

	status := m.Main([]string{"--wat"})
	if status != vesta.ExitUsage {
		t.Fatalf("status = %d, want %d", status, vesta.ExitUsage)
	}
	if !strings.Contains(diag.String(), `unknown option "--wat"`) {
		t.Fatalf("stderr = %q", diag.String())
	}
}

func TestMissingStorePrecondition(t *testing.T) {
	if !vesta.BackendAvailable() {
		t.Skip("backend binary not installed")
	}
	m, _, diag := newTestCLI(t, t.TempDir())

	status := m.Main([]string{"get", "a.b"})
	if status != vesta.ExitStoreMissing {
		t.Fatalf("status = %d, want %d", status, vesta.ExitStoreMissing)
	}
	if !strings.Contains(diag.String(), "does not exist") {
		t.Fatalf("stderr = %q", diag.String())
	}
}

func TestMissingBackendPrecondition(t *testing.T) {
	m, _, diag := newTestCLI(t, t.TempDir())
	t.Setenv("PATH", "")

	status := m.Main([]string{"get", "a.b"})
	if status != vesta.ExitBackendMissing {
		t.Fatalf("status = %d, want %d", status, vesta.ExitBackendMissing)
	}
	if !strings.Contains(diag.String(), "backend binary not found") {
		t.Fatalf("stderr = %q", diag.String())
	}
}

func TestVerboseFlagOverridesEnvironment(t *testing.T) {
	m, _, _ := newTestCLI(t, t.TempDir())
	m.cfg.MinLevel = vesta.LevelDebug // as loaded from the environment

	status := m.Main([]string{"-v", "trace", "help"})
	if status != vesta.ExitOK {
		t.Fatalf("status = %d, want 0", status)
	}
	if m.cfg.MinLevel != vesta.LevelTrace {
		t.Fatalf("level = %s, flag must override environment", m.cfg.MinLevel)
	}
}

func TestVerboseRejectsUnknownLevel(t *testing.T) {
	m, _, _ := newTestCLI(t, t.TempDir())

	if status := m.Main([]string{"-v", "shouty", "help"}); status != vesta.ExitUsage {
		t.Fatalf("status = %d, want %d", status, vesta.ExitUsage)
	}
}

func TestStoreFlagOverridesLocation(t *testing.T) {
	m, _, _ := newTestCLI(t, t.TempDir())
	path := t.TempDir() + "/custom.ini"

	status := m.Main([]string{"-s", path, "init"})
	if status != vesta.ExitOK {
		t.Fatalf("status = %d, want 0", status)
	}
	store := vesta.NewStore(path, m.run)
	if !store.Exists() {
		t.Fatalf("store was not created at the overridden path %s", path)
	}
}

func TestPanickingHandlerYieldsInternalStatus(t *testing.T) {
	m, _, diag := newTestCLI(t, t.TempDir())
	m.reg.Register(&vesta.Command{
		Name:    "explode",
		Summary: "test command",
		Run: func([]string) error {
			panic("handler bug")
		},
	})

	status := m.Main([]string{"explode"})
	if status != vesta.ExitInternal {
		t.Fatalf("status = %d, want %d", status, vesta.ExitInternal)
	}
	if !strings.Contains(diag.String(), "internal failure: handler bug") {
		t.Fatalf("stderr = %q", diag.String())
	}
}
