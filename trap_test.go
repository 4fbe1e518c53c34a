// trap_test.go: Testing the top-level failure boundary
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"bytes"
	"strings"
	"testing"
)

func TestGuardPassesThroughStatus(t *testing.T) {
	var buf bytes.Buffer
	trap := NewTrap(NewLogger(&buf, LevelInfo))

	if got := trap.Guard(func() int { return 5 }); got != 5 {
		t.Fatalf("status = %d, want 5", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("normal completion must not log: %q", buf.String())
	}
}

func TestGuardConvertsPanicToInternalStatus(t *testing.T) {
	var buf bytes.Buffer
	trap := NewTrap(NewLogger(&buf, LevelInfo))

	got := trap.Guard(func() int {
		panic("boom")
	})
	if got != ExitInternal {
		t.Fatalf("status = %d, want %d", got, ExitInternal)
	}

	out := buf.String()
	if !strings.Contains(out, "internal failure: boom") {
		t.Errorf("missing failure diagnostic: %q", out)
	}
	if !strings.Contains(out, "  at ") {
		t.Errorf("missing call trace: %q", out)
	}
	if !strings.Contains(out, "aborting with status 42") {
		t.Errorf("missing abort diagnostic: %q", out)
	}
}

func TestGuardTraceMentionsPanickingFunction(t *testing.T) {
	var buf bytes.Buffer
	trap := NewTrap(NewLogger(&buf, LevelInfo))

	trap.Guard(panickingHelper)

	if !strings.Contains(buf.String(), "panickingHelper") {
		t.Fatalf("trace does not name the failing function: %q", buf.String())
	}
}

func panickingHelper() int {
	panic("helper exploded")
}

func TestDieBypassesTrace(t *testing.T) {
	var buf bytes.Buffer
	trap := NewTrap(NewLogger(&buf, LevelInfo))

	exited := -1
	trap.SetExit(func(status int) { exited = status })
	trap.Die(5, "store is gone")

	if exited != 5 {
		t.Fatalf("exit status = %d, want 5", exited)
	}
	out := buf.String()
	if !strings.Contains(out, "DIE store is gone") {
		t.Errorf("missing DIE message: %q", out)
	}
	if strings.Contains(out, "  at ") {
		t.Errorf("Die must not render a trace: %q", out)
	}
}

func TestDieWithoutMessage(t *testing.T) {
	var buf bytes.Buffer
	trap := NewTrap(NewLogger(&buf, LevelInfo))

	exited := -1
	trap.SetExit(func(status int) { exited = status })
	trap.Die(0, "")

	if exited != 0 {
		t.Fatalf("exit status = %d, want 0", exited)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty message must not log: %q", buf.String())
	}
}
