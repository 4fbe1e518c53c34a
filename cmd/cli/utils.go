// utils.go: Small shared helpers for the Vesta CLI
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strconv"

	"github.com/agilira/go-errors"
	"github.com/agilira/vesta"
)

// usageErrorf builds a usage-class error (process exit status 1).
func usageErrorf(format string, args ...interface{}) error {
	return errors.New(vesta.ErrCodeUsage, fmt.Sprintf(format, args...))
}

// unknownCommandErrorf builds an unknown-command error (exit status 3).
func unknownCommandErrorf(format string, args ...interface{}) error {
	return errors.New(vesta.ErrCodeUnknownCommand, fmt.Sprintf(format, args...))
}

// parsePositiveInt parses a strictly positive decimal integer.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive: %d", n)
	}
	return n, nil
}
