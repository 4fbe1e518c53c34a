// config_test.go: Testing runtime configuration loading
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv removes every Vesta variable so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VESTA_STORE_DIR", "VESTA_STORE_FILE", "VESTA_STORE", "VESTA_LOG_LEVEL",
		"VESTA_DRY", "VESTA_FORCE", "VESTA_AUDIT", "VESTA_AUDIT_DB",
		"VESTA_LOG_TIME", "VESTA_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinLevel != LevelInfo {
		t.Errorf("default level = %s, want INFO", cfg.MinLevel)
	}
	if cfg.DryRun || cfg.Force || cfg.AuditEnabled {
		t.Error("dry, force and audit must default to off")
	}
	if cfg.StoreFile != DefaultStoreFile {
		t.Errorf("store file = %q, want %q", cfg.StoreFile, DefaultStoreFile)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VESTA_STORE_DIR", "/srv/vesta")
	t.Setenv("VESTA_STORE_FILE", "state.ini")
	t.Setenv("VESTA_LOG_LEVEL", "debug")
	t.Setenv("VESTA_DRY", "yes")
	t.Setenv("VESTA_FORCE", "1")
	t.Setenv("VESTA_AUDIT", "on")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.StoreDir != "/srv/vesta" || cfg.StoreFile != "state.ini" {
		t.Errorf("store location = %q/%q", cfg.StoreDir, cfg.StoreFile)
	}
	if cfg.MinLevel != LevelDebug {
		t.Errorf("level = %s, want DEBUG", cfg.MinLevel)
	}
	if !cfg.DryRun || !cfg.Force || !cfg.AuditEnabled {
		t.Error("boolean environment settings not applied")
	}
	if got := cfg.ResolveStorePath(); got != filepath.Join("/srv/vesta", "state.ini") {
		t.Errorf("resolved path = %q", got)
	}
}

func TestLoadConfigBadLevelFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("VESTA_LOG_LEVEL", "shouty")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("unknown level in environment must fail")
	}
}

func TestLoadConfigFromRcFile(t *testing.T) {
	clearEnv(t)
	rc := filepath.Join(t.TempDir(), "vesta.yaml")
	content := "store_dir: /data/vesta\nlog_level: trace\ndry: true\naudit: true\naudit_db: /data/audit.db\n"
	if err := os.WriteFile(rc, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VESTA_CONFIG", rc)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.StoreDir != "/data/vesta" {
		t.Errorf("store dir = %q", cfg.StoreDir)
	}
	if cfg.MinLevel != LevelTrace || !cfg.DryRun || !cfg.AuditEnabled {
		t.Error("rc file settings not applied")
	}
	if cfg.AuditDB != "/data/audit.db" {
		t.Errorf("audit db = %q", cfg.AuditDB)
	}
}

func TestEnvOverridesRcFile(t *testing.T) {
	clearEnv(t)
	rc := filepath.Join(t.TempDir(), "vesta.yaml")
	if err := os.WriteFile(rc, []byte("log_level: trace\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VESTA_CONFIG", rc)
	t.Setenv("VESTA_LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinLevel != LevelError {
		t.Errorf("level = %s, environment must override the rc file", cfg.MinLevel)
	}
}

func TestLoadConfigMalformedRcFile(t *testing.T) {
	clearEnv(t)
	rc := filepath.Join(t.TempDir(), "vesta.yaml")
	if err := os.WriteFile(rc, []byte("store_dir: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VESTA_CONFIG", rc)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("malformed rc file must fail")
	}
}

func TestStorePathOverrideWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoreDir = "/somewhere"
	cfg.StorePath = "/explicit/db.ini"
	if got := cfg.ResolveStorePath(); got != "/explicit/db.ini" {
		t.Errorf("resolved path = %q, full override must win", got)
	}
}

func TestEnvBool(t *testing.T) {
	truthy := []string{"true", "TRUE", "yes", "1", "on", "enabled"}
	for _, v := range truthy {
		if !envBool(v) {
			t.Errorf("envBool(%q) = false", v)
		}
	}
	falsy := []string{"false", "no", "0", "off", "", "maybe"}
	for _, v := range falsy {
		if envBool(v) {
			t.Errorf("envBool(%q) = true", v)
		}
	}
}
