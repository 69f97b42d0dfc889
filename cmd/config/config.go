// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	wconfig "github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	configFlag = "config"
	rootFlag   = "root"
	cliExitStr = ""
)

// ConfigCmd is the command that prints the effective harness configuration.
var ConfigCmd = newConfigCmd()

// newConfigCmd returns a fresh command instance. Command values carry parsed
// flag state, so tests construct their own rather than reuse ConfigCmd.
func newConfigCmd() *cli.Command {
	return &cli.Command{
		Name: "config",
		Usage: "Print the effective harness configuration, after defaults and " +
			"any configuration file are merged",
		Description: `Print the effective harness configuration as YAML.

The output reflects the built-in defaults merged with the configuration file
found under the suite root (wtest.yaml or wtest.hcl) or fetched from the URL
given with --config. The printed document is itself a valid wtest.yaml.`,
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

// view is the YAML shape of the printed configuration. It mirrors the
// configuration file keys so the output round-trips through Load.
type view struct {
	BuildCommand    string `yaml:"build_command"`
	CleanCommand    string `yaml:"clean_command"`
	Launcher        string `yaml:"launcher"`
	LauncherProcs   int    `yaml:"launcher_procs"`
	DescriptorDir   string `yaml:"descriptor_dir"`
	DescriptorFile  string `yaml:"descriptor_file"`
	ExecutableToken string `yaml:"executable_token"`
	Autopar         bool   `yaml:"autopar"`
	Strict          bool   `yaml:"strict"`
	Timeout         string `yaml:"timeout,omitempty"`
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running config command")

	cfg, err := wconfig.Load(ctx, cmd.String(rootFlag), cmd.String(configFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	v := view{
		BuildCommand:    cfg.BuildCommand,
		CleanCommand:    cfg.CleanCommand,
		Launcher:        cfg.Launcher,
		LauncherProcs:   cfg.LauncherProcs,
		DescriptorDir:   cfg.Layout.DescriptorDir,
		DescriptorFile:  cfg.Layout.DescriptorFile,
		ExecutableToken: cfg.Layout.ExecutableToken,
		Autopar:         cfg.Autopar,
		Strict:          cfg.Strict,
	}

	if cfg.Timeout > 0 {
		v.Timeout = cfg.Timeout.String()
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to encode configuration: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	fmt.Fprint(cmd.Writer, string(out))

	return nil
}
