// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package list

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/urfave/cli/v3"
)

const (
	configFlag = "config"
	rootFlag   = "root"
	cliExitStr = ""
)

// ListCmd is the command that lists the discovered test projects.
var ListCmd = newListCmd()

// newListCmd returns a fresh command instance. Command values carry parsed
// flag state, so tests construct their own rather than reuse ListCmd.
func newListCmd() *cli.Command {
	return &cli.Command{
		Name: "list",
		Description: `List the discovered test projects and their declared executables.

Projects whose build descriptor declares no executable are listed with the
resolution diagnostic instead, since running them would error.`,
		Flags: []cli.Flag{
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
	logger.Debug("Running list command")

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

	if len(projects) == 0 {
		fmt.Fprintf(cmd.Writer, "No test projects found under %s\n", root)
		return nil
	}

	for _, p := range projects {
		exe, err := p.Executable(cfg.Layout)
		if err != nil {
			fmt.Fprintf(cmd.Writer, "%-24s %s\n", p.Name, err.Error())
			continue
		}

		fmt.Fprintf(cmd.Writer, "%-24s %s\n", p.Name, exe)
	}

	return nil
}
