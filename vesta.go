// vesta.go: Version, error codes and exit status taxonomy
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"fmt"

	"github.com/agilira/go-errors"
)

// Version is the release version reported by the --version flag.
const Version = "1.0.0"

// Error codes used throughout Vesta. Every coded error maps to exactly one
// process exit status through ExitStatus.
const (
	ErrCodeUsage          = "VESTA_USAGE_ERROR"
	ErrCodeUnknownCommand = "VESTA_UNKNOWN_COMMAND"
	ErrCodeBackendMissing = "VESTA_BACKEND_MISSING"
	ErrCodeStoreMissing   = "VESTA_STORE_MISSING"
	ErrCodeExecFailed     = "VESTA_EXEC_FAILED"
	ErrCodeConfigError    = "VESTA_CONFIG_ERROR"
	ErrCodeAuditError     = "VESTA_AUDIT_ERROR"
	ErrCodeInternal       = "VESTA_INTERNAL"
)

// Process exit statuses. Handler statuses outside this set propagate verbatim
// as the final process status.
const (
	ExitOK             = 0  // success
	ExitUsage          = 1  // malformed flags, missing arguments, generic failure
	ExitBackendMissing = 2  // required external backend binary not installed
	ExitUnknownCommand = 3  // verb not present in the command registry
	ExitStoreMissing   = 5  // store file absent and the command is not init
	ExitInternal       = 42 // uncaught framework-level failure (error trap)
)

// StatusError carries an explicit process exit status, used to propagate an
// external action's real status unchanged through the framework.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Status)
}

// ExitStatus maps an error to the process exit status. A nil error is
// success, a StatusError propagates its status verbatim, a coded error maps
// through the code table, and anything else is a generic failure.
func ExitStatus(err error) int {
	if err == nil {
		return ExitOK
	}
	if se, ok := err.(*StatusError); ok {
		return se.Status
	}
	if coder, ok := err.(errors.ErrorCoder); ok {
		switch string(coder.ErrorCode()) {
		case ErrCodeUnknownCommand:
			return ExitUnknownCommand
		case ErrCodeBackendMissing:
			return ExitBackendMissing
		case ErrCodeStoreMissing:
			return ExitStoreMissing
		case ErrCodeInternal:
			return ExitInternal
		}
	}
	return ExitUsage
}
