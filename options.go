// options.go: Per-scope option recognition with positional residue
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

// Option declares one flag recognized by a scope: its aliases, whether it
// consumes a value token, the effect applied when it is seen, and the help
// metadata the introspector renders. Declared once, documented once.
type Option struct {
	// Aliases are the flag tokens, e.g. {"-n", "--dry"}. Unique per scope.
	Aliases []string

	// Arg is the value placeholder ("LEVEL", "PATH"); empty means the flag
	// takes no value.
	Arg string

	// Summary is the one-line description shown in options tables.
	Summary string

	// Apply performs the flag's declared effect, typically mutating the
	// shared runtime configuration. value is empty for flags without one.
	Apply func(value string) error
}

// OptionSet is the option table of one scope. Parsing consumes a prefix of
// the argument vector and returns the unconsumed positional residue in
// order, which is what lets a command's own sub-arguments (including tokens
// that look like flags for a different scope) pass through untouched.
type OptionSet struct {
	scope string
	opts  []*Option // declaration order, preserved for help rendering
	index map[string]*Option
}

// NewOptionSet returns an empty option table for scope ("" is the root).
func NewOptionSet(scope string) *OptionSet {
	return &OptionSet{scope: scope, index: make(map[string]*Option)}
}

// Add declares opt in the set. Duplicate aliases within one scope are a
// programming error and panic at build time.
func (s *OptionSet) Add(opt *Option) *OptionSet {
	for _, alias := range opt.Aliases {
		if _, dup := s.index[alias]; dup {
			panic(fmt.Sprintf("vesta: duplicate option alias %q in scope %q", alias, s.scope))
		}
		s.index[alias] = opt
	}
	s.opts = append(s.opts, opt)
	return s
}

// Options returns the declared options in declaration order.
func (s *OptionSet) Options() []*Option {
	return s.opts
}

// Parse consumes recognized flags from the front of args, applying each
// flag's effect, and returns the remaining arguments verbatim.
//
// Parsing stops at the first token that is not a recognized flag; that token
// and everything after it are the positional residue. A token that looks
// like a flag but is not declared for this scope is a hard usage failure,
// as is a declared flag whose required value is missing at end of input.
func (s *OptionSet) Parse(args []string) ([]string, error) {
	i := 0
	for i < len(args) {
		tok := args[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			break
		}
		opt := s.index[tok]
		if opt == nil {
			return nil, errors.New(ErrCodeUsage, fmt.Sprintf("unknown option %q", tok))
		}
		value := ""
		if opt.Arg != "" {
			if i+1 >= len(args) {
				return nil, errors.New(ErrCodeUsage,
					fmt.Sprintf("option %s requires a %s value", tok, opt.Arg))
			}
			i++
			value = args[i]
		}
		if err := opt.Apply(value); err != nil {
			return nil, err
		}
		i++
	}
	return args[i:], nil
}
