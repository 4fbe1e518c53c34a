// help.go: Introspective help generation over registry metadata
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"io"
	"strings"
)

// RenderHelp writes user-facing help for scope: the scope's usage and
// summary, a table of its direct child commands, and a table of its own
// declared options. Everything is derived from metadata already attached to
// command and option declarations; rendering executes no command logic.
//
// A scope with no children omits the commands section entirely rather than
// printing an empty heading; likewise for options. argsShape is the scope's
// own argument shape, shown when the scope has no children of its own. opts
// may be nil.
func RenderHelp(w io.Writer, prog, scope, argsShape, summary string, reg *Registry, opts *OptionSet) {
	usage := prog
	if scope != "" {
		usage += " " + scope
	}
	children := reg.Children(scope)
	if opts != nil && len(opts.Options()) > 0 {
		usage += " [OPTIONS]"
	}
	if len(children) > 0 {
		usage += " COMMAND [ARGS...]"
	} else if argsShape != "" {
		usage += " " + argsShape
	}
	fmt.Fprintf(w, "Usage: %s\n", usage)
	if summary != "" {
		fmt.Fprintf(w, "\n%s\n", summary)
	}

	if len(children) > 0 {
		rows := make([][2]string, 0, len(children))
		for _, cmd := range children {
			name := lastSegment(cmd.Name)
			if cmd.Args != "" {
				name += " " + cmd.Args
			}
			rows = append(rows, [2]string{name, cmd.Summary})
		}
		fmt.Fprintf(w, "\nCommands:\n")
		renderTable(w, rows)
	}

	if opts != nil && len(opts.Options()) > 0 {
		rows := make([][2]string, 0, len(opts.Options()))
		for _, opt := range opts.Options() {
			label := strings.Join(opt.Aliases, ", ")
			if opt.Arg != "" {
				label += " " + opt.Arg
			}
			rows = append(rows, [2]string{label, opt.Summary})
		}
		fmt.Fprintf(w, "\nOptions:\n")
		renderTable(w, rows)
	}
}

// renderTable prints two-column rows with the left column padded to the
// widest entry.
func renderTable(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-*s  %s\n", width, row[0], row[1])
	}
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, " "); i >= 0 {
		return name[i+1:]
	}
	return name
}
