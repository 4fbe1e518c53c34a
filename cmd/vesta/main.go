// main.go: Process entry point for the vesta binary
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	"github.com/agilira/vesta/cmd/cli"
)

func main() {
	os.Exit(cli.NewManager().Main(os.Args[1:]))
}
