// runner.go: Execution wrapper for external actions with dry-run support
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"bytes"
	goerrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external actions on behalf of command handlers. When the
// runtime configuration enables dry-run, the action is logged at the DRY
// level and skipped; otherwise it is logged at EXEC and invoked, with its
// real exit status propagated unchanged.
//
// Execution is strictly sequential: an action blocks the whole process until
// it returns. There is no retry, no timeout and no cancellation.
type Runner struct {
	cfg    *RuntimeConfig
	log    *Logger
	stdout io.Writer // inherited stream for Run; os.Stdout in production
	stderr io.Writer
}

// NewRunner returns a runner bound to the shared runtime configuration.
func NewRunner(cfg *RuntimeConfig, log *Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetStreams redirects the streams inherited by executed actions. Used by
// tests; production runners keep the process streams.
func (r *Runner) SetStreams(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Run invokes argv with stdout and stderr inherited, so the action's output
// flows to the caller untouched. In dry-run mode the action is only logged.
func (r *Runner) Run(argv ...string) error {
	if r.cfg.DryRun {
		r.log.Log(LevelDry, strings.Join(argv, " "))
		return nil
	}
	r.log.Log(LevelExec, strings.Join(argv, " "))
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return r.wrap(argv[0], cmd.Run())
}

// Output invokes argv capturing its standard output, with stderr still
// inherited. In dry-run mode it returns empty output and success.
func (r *Runner) Output(argv ...string) (string, error) {
	if r.cfg.DryRun {
		r.log.Log(LevelDry, strings.Join(argv, " "))
		return "", nil
	}
	r.log.Log(LevelExec, strings.Join(argv, " "))
	var buf bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &buf
	cmd.Stderr = r.stderr
	if err := r.wrap(argv[0], cmd.Run()); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}

// wrap converts an exec failure into a StatusError carrying the action's
// real exit status. A command that cannot be invoked at all is reported as a
// missing-backend failure rather than masked as a generic error.
func (r *Runner) wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if goerrors.As(err, &exitErr) {
		return &StatusError{
			Status:  exitErr.ExitCode(),
			Message: name + ": " + err.Error(),
		}
	}
	if goerrors.Is(err, exec.ErrNotFound) {
		return &StatusError{
			Status:  ExitBackendMissing,
			Message: name + ": not found in PATH",
		}
	}
	return &StatusError{
		Status:  ExitUsage,
		Message: name + ": " + err.Error(),
	}
}
