// registry.go: Hierarchical command registry and dispatch
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
)

// Handler is the executable behavior bound to a command: positional
// arguments in, error out. A nil error is success; the process exit status
// is derived from the error through ExitStatus.
type Handler func(args []string) error

// Command describes one registered command. The metadata lives here, next to
// the handler, and is the single source the help generator reads from:
// commands never duplicate their own documentation.
type Command struct {
	// Name is the full hierarchical name, segments joined by single spaces
	// ("add", "audit query"). Names are unique within a registry.
	Name string

	// Args is the human-readable argument shape ("KEY VALUE", "[PATH]").
	Args string

	// Summary is the one-line description shown in command tables.
	Summary string

	// Run is the bound handler.
	Run Handler
}

// Registry is the static set of registered commands, addressed by
// hierarchical name. Registration happens at process build time; the
// registry is read-only afterwards.
type Registry struct {
	commands []*Command // declaration order, preserved for help rendering
	index    map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Command)}
}

// Register adds cmd to the registry. A duplicate hierarchical name is a
// programming error and panics at build time.
func (r *Registry) Register(cmd *Command) {
	if _, dup := r.index[cmd.Name]; dup {
		panic(fmt.Sprintf("vesta: duplicate command registration %q", cmd.Name))
	}
	r.commands = append(r.commands, cmd)
	r.index[cmd.Name] = cmd
}

// Lookup resolves verb within scope ("" is the root scope). Returns nil when
// no such command is registered.
func (r *Registry) Lookup(scope, verb string) *Command {
	return r.index[qualify(scope, verb)]
}

// Children returns the direct children of scope in declaration order:
// commands whose hierarchical name begins with scope and has exactly one
// more segment.
func (r *Registry) Children(scope string) []*Command {
	prefix := ""
	if scope != "" {
		prefix = scope + " "
	}
	var out []*Command
	for _, cmd := range r.commands {
		if !strings.HasPrefix(cmd.Name, prefix) {
			continue
		}
		rest := cmd.Name[len(prefix):]
		if rest != "" && !strings.Contains(rest, " ") {
			out = append(out, cmd)
		}
	}
	return out
}

// Dispatch resolves args[0] as a verb within scope and invokes its handler
// with the remaining arguments, propagating the handler's result verbatim.
// An unregistered verb is an unknown-command failure with its own fixed exit
// status, distinguishable from any handler-reported failure.
//
// Dispatch is recursive by construction: a handler may call Dispatch again
// with a narrower scope to implement nested subcommands, so the top level
// never needs to know the shape of the command tree.
func (r *Registry) Dispatch(scope string, args []string) error {
	if len(args) == 0 {
		return errors.New(ErrCodeUsage, "missing command")
	}
	cmd := r.Lookup(scope, args[0])
	if cmd == nil {
		return errors.New(ErrCodeUnknownCommand,
			fmt.Sprintf("unknown command %q", qualify(scope, args[0])))
	}
	return cmd.Run(args[1:])
}

func qualify(scope, verb string) string {
	if scope == "" {
		return verb
	}
	return scope + " " + verb
}
