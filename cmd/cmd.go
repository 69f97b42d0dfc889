// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/wtest/cmd/clean"
	configcmd "github.com/matt-FFFFFF/wtest/cmd/config"
	"github.com/matt-FFFFFF/wtest/cmd/list"
	"github.com/matt-FFFFFF/wtest/cmd/run"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		clean.CleanCmd,
		list.ListCmd,
		configcmd.ConfigCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "wtest",
	Description: `wtest is a unit test harness for OpenFOAM-style test suites. It discovers
test projects beneath a root directory, builds each one with wmake, runs the
resulting executable (under mpirun for parallel tests) and reports a pass,
fail or error verdict per project together with the captured build and run
output of the unhealthy ones.`,
	Usage:     "wtest run --root applications/test",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
