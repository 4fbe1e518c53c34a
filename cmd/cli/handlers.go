// handlers.go: Command handlers for the Vesta CLI
//
// Handlers are thin: they validate positional arguments, forward store
// operations to the backend client, and print results to stdout. All design
// weight stays in the framework package.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/agilira/vesta"
)

// handleInit creates the store if absent. With a PATH argument the store is
// created under that directory instead of the configured one. Idempotent: an
// existing store is reported and left untouched.
func (m *Manager) handleInit(args []string) error {
	if len(args) > 1 {
		return usageErrorf("usage: vesta init [PATH]")
	}
	store := m.store
	if len(args) == 1 {
		store = vesta.NewStore(filepath.Join(args[0], m.cfg.StoreFile), m.run)
	}
	if store.Exists() {
		m.log.Logf(vesta.LevelInfo, "store already exists: %s", store.Path())
		return nil
	}
	if m.cfg.DryRun {
		m.log.Logf(vesta.LevelDry, "create store %s", store.Path())
		return nil
	}
	if err := store.Init(); err != nil {
		return err
	}
	m.recordAudit("store_init", "", store.Path())
	m.log.Logf(vesta.LevelInfo, "created store %s", store.Path())
	return nil
}

// handleAdd appends VALUE to KEY, keeping existing values.
func (m *Manager) handleAdd(args []string) error {
	if len(args) != 2 {
		return usageErrorf("usage: vesta add KEY VALUE")
	}
	if err := m.store.Add(args[0], args[1]); err != nil {
		return err
	}
	m.recordAudit("store_add", args[0], args[1])
	return nil
}

// handleSet sets KEY to VALUE, replacing any existing values.
func (m *Manager) handleSet(args []string) error {
	if len(args) != 2 {
		return usageErrorf("usage: vesta set KEY VALUE")
	}
	if err := m.store.ReplaceAll(args[0], args[1]); err != nil {
		return err
	}
	m.recordAudit("store_set", args[0], args[1])
	return nil
}

// handleRm removes KEY, or only its values matching VALUE. Removing a key
// that holds several values requires force mode, so a plain rm cannot wipe a
// multi-valued key by accident.
func (m *Manager) handleRm(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageErrorf("usage: vesta rm KEY [VALUE]")
	}
	key := args[0]
	pattern := ""
	if len(args) == 2 {
		pattern = args[1]
	}
	if pattern == "" && !m.cfg.Force {
		values, err := m.store.GetAll(key)
		if err == nil && len(values) > 1 {
			return usageErrorf("%s holds %d values; use --force to remove them all", key, len(values))
		}
	}
	if err := m.store.UnsetAll(key, pattern); err != nil {
		return err
	}
	m.recordAudit("store_rm", key, pattern)
	return nil
}

// handleGet prints every value of KEY to stdout, one per line, in insertion
// order. Output goes to stdout only; this is the pipeline surface.
func (m *Manager) handleGet(args []string) error {
	if len(args) != 1 {
		return usageErrorf("usage: vesta get KEY")
	}
	values, err := m.store.GetAll(args[0])
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Fprintln(m.stdout, v)
	}
	return nil
}

// handleDump prints key=value lines, filtered to those containing PATTERN
// when one is given.
func (m *Manager) handleDump(args []string) error {
	if len(args) > 1 {
		return usageErrorf("usage: vesta dump [PATTERN]")
	}
	lines, err := m.store.List()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if len(args) == 1 && !strings.Contains(line, args[0]) {
			continue
		}
		fmt.Fprintln(m.stdout, line)
	}
	return nil
}

// handleLs lists key names, restricted to a section when one is given. A
// name matches section S when it equals S or starts with "S.".
func (m *Manager) handleLs(args []string) error {
	if len(args) > 1 {
		return usageErrorf("usage: vesta ls [SECTION]")
	}
	names, err := m.store.ListNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if len(args) == 1 && name != args[0] && !strings.HasPrefix(name, args[0]+".") {
			continue
		}
		fmt.Fprintln(m.stdout, name)
	}
	return nil
}

// handleDb forwards the arguments verbatim to the backend against the store
// file, propagating the backend's exit status unchanged.
func (m *Manager) handleDb(args []string) error {
	if err := m.store.Raw(args); err != nil {
		return err
	}
	m.recordAudit("store_db", strings.Join(args, " "), "")
	return nil
}

// handleHelp renders help for the named command scope, or for the root when
// no command is given.
func (m *Manager) handleHelp(args []string) error {
	scope := strings.Join(args, " ")
	if scope == "" {
		m.renderScopeHelp("")
		return nil
	}
	if m.reg.Lookup("", scope) == nil && len(m.reg.Children(scope)) == 0 {
		return unknownCommandErrorf("unknown command %q", scope)
	}
	m.renderScopeHelp(scope)
	return nil
}

// handleAudit is the parent of the audit scope: it re-enters the dispatcher
// with the narrower scope, so the nested tree stays invisible to the top
// level.
func (m *Manager) handleAudit(args []string) error {
	if len(args) == 0 {
		m.renderScopeHelp("audit")
		return usageErrorf("missing audit subcommand")
	}
	return m.reg.Dispatch("audit", args)
}

// handleAuditQuery prints recorded audit events, newest first.
func (m *Manager) handleAuditQuery(args []string) error {
	m.auditSince = 0
	m.auditEvent = ""
	m.auditLimit = 100
	residue, err := m.opts["audit query"].Parse(args)
	if err != nil {
		return err
	}
	if len(residue) != 0 {
		return usageErrorf("usage: vesta audit query [OPTIONS]")
	}
	alog, err := m.openAudit()
	if err != nil {
		return err
	}
	events, err := alog.Query(m.auditSince, m.auditEvent, m.auditLimit)
	if err != nil {
		return err
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-10s %s", ev.Timestamp.Format(time.RFC3339), ev.Event, ev.Key)
		if ev.Value != "" {
			line += " " + ev.Value
		}
		fmt.Fprintln(m.stdout, line)
	}
	return nil
}

// handleAuditCleanup deletes events older than the requested age. Under
// dry-run it only reports what would be removed.
func (m *Manager) handleAuditCleanup(args []string) error {
	m.auditOlderThan = 30 * 24 * time.Hour
	residue, err := m.opts["audit cleanup"].Parse(args)
	if err != nil {
		return err
	}
	if len(residue) != 0 {
		return usageErrorf("usage: vesta audit cleanup [OPTIONS]")
	}
	alog, err := m.openAudit()
	if err != nil {
		return err
	}
	if m.cfg.DryRun {
		n, err := alog.CountOlderThan(m.auditOlderThan)
		if err != nil {
			return err
		}
		m.log.Logf(vesta.LevelDry, "delete %d audit events older than %s", n, m.auditOlderThan)
		return nil
	}
	n, err := alog.Cleanup(m.auditOlderThan)
	if err != nil {
		return err
	}
	m.log.Logf(vesta.LevelInfo, "deleted %d audit events", n)
	return nil
}
