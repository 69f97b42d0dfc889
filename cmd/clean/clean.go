// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package clean

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/urfave/cli/v3"
)

const (
	testsFlag  = "tests"
	configFlag = "config"
	rootFlag   = "root"
	cliExitStr = ""
)

// CleanCmd is the command that removes build artifacts from the test projects.
var CleanCmd = newCleanCmd()

// newCleanCmd returns a fresh command instance. Command values carry parsed
// flag state, so tests construct their own rather than reuse CleanCmd.
func newCleanCmd() *cli.Command {
	return &cli.Command{
		Name: "clean",
		Description: `Run the clean command for each test project from the suite root.

The exit status of the clean tool never affects the process exit code, so a
project that was never built does not fail the clean.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    testsFlag,
				Aliases: []string{"t"},
				Usage: "Clean only the named test projects. " +
					"Specify multiple times to clean several. Defaults to all.",
				OnlyOnce: false,
			},
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"f"},
				Usage: "Specify the URL of the harness configuration file. " +
					"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      rootFlag,
				Usage:     "The directory containing the test projects",
				Value:     ".",
				TakesFile: true,
				OnlyOnce:  true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running clean command")

	root := cmd.String(rootFlag)

	cfg, err := config.Load(ctx, root, cmd.String(configFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	projects, err := project.Discover(ctx, root, cfg.Layout)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to discover test projects: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	selected, err := project.Select(projects, cmd.StringSlice(testsFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Invalid test selection: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	h := harness.New(root, cfg, harness.WithOutput(cmd.Writer))

	if err := h.Clean(ctx, selected); err != nil {
		logger.Error(fmt.Sprintf("Clean aborted: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}
