// manager.go: CLI orchestration for the Vesta command-line tool
//
// The Manager owns the framework pieces (logger, trap, runner, registry,
// option tables) and the static command declarations. Command and option
// metadata is declared exactly once, here, and the help generator reads it
// back; handlers live in handlers.go.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agilira/vesta"
)

// rootSummary is the one-line description of the tool itself, shown at the
// top of root help.
const rootSummary = "Versioned key-value configuration store driven by a self-documenting CLI"

// errVersionRequested terminates option parsing when -V/--version is seen:
// version reporting bypasses all further parsing and dispatch.
var errVersionRequested = goerrors.New("version requested")

// storeVerbs are the commands that operate on the store through the backend.
// They require both the backend binary and an existing store file.
var storeVerbs = map[string]bool{
	"add":  true,
	"rm":   true,
	"set":  true,
	"get":  true,
	"dump": true,
	"ls":   true,
	"db":   true,
}

// Manager wires the Vesta framework into the concrete command-line tool.
type Manager struct {
	cfg  *vesta.RuntimeConfig
	log  *vesta.Logger
	trap *vesta.Trap
	run  *vesta.Runner
	reg  *vesta.Registry
	opts map[string]*vesta.OptionSet

	store *vesta.Store
	audit *vesta.AuditLog

	stdout io.Writer

	helpRequested bool
	auditBroken   bool

	// Per-invocation parameters of the audit subcommands, written only while
	// their scope's options are parsed.
	auditSince     time.Duration
	auditEvent     string
	auditLimit     int
	auditOlderThan time.Duration
}

// NewManager builds a production manager: configuration from rc file and
// environment, diagnostics to stderr, results to stdout.
func NewManager() *Manager {
	cfg, err := vesta.LoadConfig()
	if err != nil {
		cfg = vesta.DefaultConfig()
	}
	m := newManager(cfg, os.Stdout, os.Stderr)
	if err != nil {
		m.log.Logf(vesta.LevelWarn, "ignoring configuration: %v", err)
	}
	return m
}

// newManager builds a manager around an explicit configuration and streams.
// Tests construct managers through here.
func newManager(cfg *vesta.RuntimeConfig, stdout, stderr io.Writer) *Manager {
	log := vesta.NewLogger(stderr, cfg.MinLevel)
	log.SetTimestamps(cfg.LogTimestamps)
	m := &Manager{
		cfg:    cfg,
		log:    log,
		trap:   vesta.NewTrap(log),
		reg:    vesta.NewRegistry(),
		opts:   make(map[string]*vesta.OptionSet),
		stdout: stdout,
	}
	m.run = vesta.NewRunner(cfg, log)
	m.setupOptions()
	m.setupCommands()
	return m
}

// Main is the process entry point behind main(): the whole run is guarded by
// the error trap, so an escaped panic becomes diagnostics plus the
// distinguished internal exit status instead of a bare crash.
func (m *Manager) Main(args []string) int {
	return m.trap.Guard(func() int {
		return m.runArgs(args)
	})
}

// runArgs drives the process lifecycle: parse top-level options, resolve the
// store, check preconditions, dispatch, convert the result to an exit
// status.
func (m *Manager) runArgs(args []string) int {
	residue, err := m.opts[""].Parse(args)
	if err != nil {
		if goerrors.Is(err, errVersionRequested) {
			fmt.Fprintf(m.stdout, "vesta %s\n", vesta.Version)
			return vesta.ExitOK
		}
		m.log.Log(vesta.LevelError, err.Error())
		return vesta.ExitStatus(err)
	}
	if m.helpRequested {
		m.renderScopeHelp("")
		return vesta.ExitOK
	}
	if len(residue) == 0 {
		m.renderScopeHelp("")
		return vesta.ExitUsage
	}

	m.store = vesta.NewStore(m.cfg.ResolveStorePath(), m.run)

	verb := residue[0]
	if storeVerbs[verb] {
		if !vesta.BackendAvailable() {
			m.log.Log(vesta.LevelError, "backend binary not found in PATH: install git")
			return vesta.ExitBackendMissing
		}
		if !m.store.Exists() {
			m.log.Logf(vesta.LevelError,
				"store %s does not exist; run 'vesta init' first", m.store.Path())
			return vesta.ExitStoreMissing
		}
	}

	err = m.reg.Dispatch("", residue)
	if err != nil {
		m.log.Log(vesta.LevelError, err.Error())
	}
	if m.audit != nil {
		m.audit.Close()
	}
	return vesta.ExitStatus(err)
}

// setupOptions declares the option tables. The root scope carries the
// tool-wide flags; audit subcommands declare their own.
func (m *Manager) setupOptions() {
	root := vesta.NewOptionSet("")
	root.Add(&vesta.Option{
		Aliases: []string{"-s", "--store"},
		Arg:     "PATH",
		Summary: "Override the store file location",
		Apply: func(value string) error {
			m.cfg.StorePath = value
			return nil
		},
	})
	root.Add(&vesta.Option{
		Aliases: []string{"-h", "--help"},
		Summary: "Show help and do not dispatch",
		Apply: func(string) error {
			m.helpRequested = true
			return nil
		},
	})
	root.Add(&vesta.Option{
		Aliases: []string{"-n", "--dry"},
		Summary: "Log external actions instead of running them",
		Apply: func(string) error {
			m.cfg.DryRun = true
			return nil
		},
	})
	root.Add(&vesta.Option{
		Aliases: []string{"-f", "--force"},
		Summary: "Enable force mode",
		Apply: func(string) error {
			m.cfg.Force = true
			return nil
		},
	})
	root.Add(&vesta.Option{
		Aliases: []string{"-V", "--version"},
		Summary: "Print the version and exit",
		Apply: func(string) error {
			return errVersionRequested
		},
	})
	root.Add(&vesta.Option{
		Aliases: []string{"-v", "--verbose"},
		Arg:     "LEVEL",
		Summary: "Set the minimum log level (TRACE..DIE)",
		Apply: func(value string) error {
			level, ok := vesta.ParseLevel(value)
			if !ok {
				return usageErrorf("unknown log level %q", value)
			}
			m.cfg.MinLevel = level
			m.log.SetMinLevel(level)
			return nil
		},
	})
	m.opts[""] = root

	query := vesta.NewOptionSet("audit query")
	query.Add(&vesta.Option{
		Aliases: []string{"-s", "--since"},
		Arg:     "DURATION",
		Summary: "Only events newer than DURATION (e.g. 24h)",
		Apply: func(value string) error {
			d, err := time.ParseDuration(value)
			if err != nil {
				return usageErrorf("invalid duration %q", value)
			}
			m.auditSince = d
			return nil
		},
	})
	query.Add(&vesta.Option{
		Aliases: []string{"-e", "--event"},
		Arg:     "NAME",
		Summary: "Only events of this type",
		Apply: func(value string) error {
			m.auditEvent = value
			return nil
		},
	})
	query.Add(&vesta.Option{
		Aliases: []string{"-l", "--limit"},
		Arg:     "N",
		Summary: "Maximum number of events to print",
		Apply: func(value string) error {
			n, err := parsePositiveInt(value)
			if err != nil {
				return usageErrorf("invalid limit %q", value)
			}
			m.auditLimit = n
			return nil
		},
	})
	m.opts["audit query"] = query

	cleanup := vesta.NewOptionSet("audit cleanup")
	cleanup.Add(&vesta.Option{
		Aliases: []string{"-o", "--older-than"},
		Arg:     "DURATION",
		Summary: "Delete events older than DURATION",
		Apply: func(value string) error {
			d, err := time.ParseDuration(value)
			if err != nil {
				return usageErrorf("invalid duration %q", value)
			}
			m.auditOlderThan = d
			return nil
		},
	})
	m.opts["audit cleanup"] = cleanup
}

// setupCommands declares every command with its metadata. This table is the
// single source of truth the help generator introspects.
func (m *Manager) setupCommands() {
	m.reg.Register(&vesta.Command{
		Name: "init", Args: "[PATH]",
		Summary: "Create the store if it does not exist",
		Run:     m.handleInit,
	})
	m.reg.Register(&vesta.Command{
		Name: "add", Args: "KEY VALUE",
		Summary: "Append a value to a key",
		Run:     m.handleAdd,
	})
	m.reg.Register(&vesta.Command{
		Name: "rm", Args: "KEY [VALUE]",
		Summary: "Remove a key, or only its values matching VALUE",
		Run:     m.handleRm,
	})
	m.reg.Register(&vesta.Command{
		Name: "set", Args: "KEY VALUE",
		Summary: "Set a key to a single value, replacing existing ones",
		Run:     m.handleSet,
	})
	m.reg.Register(&vesta.Command{
		Name: "get", Args: "KEY",
		Summary: "Print every value of a key, in insertion order",
		Run:     m.handleGet,
	})
	m.reg.Register(&vesta.Command{
		Name: "dump", Args: "[PATTERN]",
		Summary: "Print key=value lines, optionally filtered by PATTERN",
		Run:     m.handleDump,
	})
	m.reg.Register(&vesta.Command{
		Name: "ls", Args: "[SECTION]",
		Summary: "List key names, optionally restricted to SECTION",
		Run:     m.handleLs,
	})
	m.reg.Register(&vesta.Command{
		Name: "db", Args: "[ARGS...]",
		Summary: "Forward arguments verbatim to the backend",
		Run:     m.handleDb,
	})
	m.reg.Register(&vesta.Command{
		Name: "help", Args: "[COMMAND]",
		Summary: "Show help for a command",
		Run:     m.handleHelp,
	})
	m.reg.Register(&vesta.Command{
		Name: "audit", Args: "COMMAND [ARGS...]",
		Summary: "Inspect and prune the audit trail",
		Run:     m.handleAudit,
	})
	m.reg.Register(&vesta.Command{
		Name: "audit query",
		Summary: "List recorded audit events",
		Run:     m.handleAuditQuery,
	})
	m.reg.Register(&vesta.Command{
		Name: "audit cleanup",
		Summary: "Delete old audit events",
		Run:     m.handleAuditCleanup,
	})
}

// renderScopeHelp writes help for scope to stdout, using the scope's own
// summary from the registry when it names a command.
func (m *Manager) renderScopeHelp(scope string) {
	summary := rootSummary
	argsShape := ""
	if scope != "" {
		if cmd := m.reg.Lookup("", scope); cmd != nil {
			summary = cmd.Summary
			argsShape = cmd.Args
		}
	}
	vesta.RenderHelp(m.stdout, "vesta", scope, argsShape, summary, m.reg, m.opts[scope])
}

// auditPath resolves the audit database location.
func (m *Manager) auditPath() string {
	if m.cfg.AuditDB != "" {
		return m.cfg.AuditDB
	}
	return filepath.Join(m.cfg.StoreDir, "audit.db")
}

// recordAudit persists a mutation event when auditing is enabled. Failures
// degrade to a warning; auditing never blocks a command.
func (m *Manager) recordAudit(event, key, value string) {
	if !m.cfg.AuditEnabled || m.cfg.DryRun || m.auditBroken {
		return
	}
	if m.audit == nil {
		alog, err := vesta.OpenAuditLog(m.auditPath())
		if err != nil {
			m.log.Logf(vesta.LevelWarn, "audit disabled: %v", err)
			m.auditBroken = true
			return
		}
		m.audit = alog
	}
	if err := m.audit.Record(event, key, value); err != nil {
		m.log.Logf(vesta.LevelWarn, "audit record failed: %v", err)
	}
}

// openAudit opens the audit database for the audit subcommands, reusing a
// handle already opened for recording.
func (m *Manager) openAudit() (*vesta.AuditLog, error) {
	if m.audit != nil {
		return m.audit, nil
	}
	alog, err := vesta.OpenAuditLog(m.auditPath())
	if err != nil {
		return nil, err
	}
	m.audit = alog
	return alog, nil
}
