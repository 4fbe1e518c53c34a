// doc.go: Package documentation for Vesta
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package vesta implements a self-documenting command-line framework around a
// versioned key-value configuration store.
//
// The package provides the framework core: a leveled logger with dynamic
// filtering, an execution wrapper with dry-run support, a hierarchical command
// registry with metadata-driven help generation, a per-scope option parser,
// and a top-level error trap that converts unexpected failures into
// diagnostics with a distinguished exit status.
//
// Store operations themselves are a thin pass-through: Vesta keeps dotted-key
// string values in an INI store file and delegates every read and mutation to
// an external versioned configuration backend (git-config) through the
// execution wrapper. The framework, not the store, is where the design lives.
//
// Components:
//   - Level, Logger: ordered severity scale and filtered diagnostics (level.go, logger.go)
//   - Runner: external action execution with dry-run (runner.go)
//   - Trap: top-level failure boundary and termination helper (trap.go)
//   - Registry, Command: hierarchical command table and dispatch (registry.go)
//   - OptionSet: per-scope flag recognition with positional residue (options.go)
//   - RenderHelp: read-only help generation over registry metadata (help.go)
//   - RuntimeConfig: process-wide settings from defaults, rc file, environment
//     and flags (config.go)
//   - Store: client for the external configuration backend (store.go)
//   - AuditLog: SQLite-backed audit trail for store mutations (audit.go)
//
// Diagnostics always go to the diagnostic stream; only command results reach
// standard output, so Vesta composes cleanly in shell pipelines.
package vesta
