// trap.go: Top-level failure boundary and termination helper
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"
	"os"
	"runtime"
)

// Trap is the process-wide guard against abnormal termination. Command
// handlers report expected failures through error returns; anything that
// escapes as a panic is a framework-level bug. The trap converts such a
// panic into ERROR diagnostics with a call trace and the distinguished
// internal exit status, clearly separated from domain exit codes.
//
// The trap provides no unwind guarantees beyond the trace and the exit
// status; handlers must not rely on it for cleanup.
type Trap struct {
	log  *Logger
	exit func(int) // os.Exit in production, injectable for tests
}

// NewTrap returns a trap reporting through log.
func NewTrap(log *Logger) *Trap {
	return &Trap{log: log, exit: os.Exit}
}

// SetExit replaces the process-exit function. Used by tests.
func (t *Trap) SetExit(exit func(int)) {
	t.exit = exit
}

// Guard runs f, converting a panic into diagnostics plus the internal exit
// status. The returned status is f's own status when f completes normally.
func (t *Trap) Guard(f func() int) (status int) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Logf(LevelError, "internal failure: %v", r)
			for _, frame := range callTrace(3) {
				t.log.Log(LevelError, "  at "+frame)
			}
			t.log.Logf(LevelError, "aborting with status %d", ExitInternal)
			status = ExitInternal
		}
	}()
	return f()
}

// Die is the explicit termination helper. It bypasses the trap's trace
// rendering entirely: the message is logged at DIE level and the process
// exits with the requested status.
func (t *Trap) Die(status int, message string) {
	if message != "" {
		t.log.Log(LevelDie, message)
	}
	t.exit(status)
}

// callTrace renders the current call stack oldest-to-newest for readability,
// skipping skip frames of trap internals and everything below the panic.
func callTrace(skip int) []string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	var innermostFirst []string
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			innermostFirst = append(innermostFirst,
				fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	out := make([]string, len(innermostFirst))
	for i, f := range innermostFirst {
		out[len(out)-1-i] = f
	}
	return out
}
