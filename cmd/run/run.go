// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/matt-FFFFFF/wtest/internal/prompt"
	"github.com/matt-FFFFFF/wtest/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	testsFlag       = "tests"
	verboseFlag     = "verbose"
	noAutoparFlag   = "no-autopar"
	timeoutFlag     = "timeout"
	strictFlag      = "strict"
	tuiFlag         = "tui"
	interactiveFlag = "interactive"
	configFlag      = "config"
	rootFlag        = "root"
	cliExitStr      = ""
)

// RunCmd is the command that builds and runs the test projects.
var RunCmd = newRunCmd()

// newRunCmd returns a fresh command instance. Command values carry parsed
// flag state, so tests construct their own rather than reuse RunCmd.
func newRunCmd() *cli.Command {
	return &cli.Command{
		Name: "run",
		Description: `Discover and run the unit test projects under the suite root.

Each project is built with the configured build command, its executable name is
resolved from the build descriptor and the executable is run from the project
directory. A project passes when its executable exits zero, fails when it exits
nonzero and errors when the build fails or no executable is declared.

Config file URLs use Hashicorp's go-getter syntax, which allows for fetching
files from various sources. See https://github.com/hashicorp/go-getter.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    testsFlag,
				Aliases: []string{"t"},
				Usage: "Run only the named test projects. " +
					"Specify multiple times to run several. Defaults to all.",
				OnlyOnce: false,
			},
			&cli.BoolFlag{
				Name:        verboseFlag,
				Aliases:     []string{"v"},
				Usage:       "Print one line per test instead of the glyph stream",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        noAutoparFlag,
				Usage:       "Do not wrap parallel tests in the MPI launcher",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
			},
			&cli.DurationFlag{
				Name:     timeoutFlag,
				Usage:    "Limit each build and each test run to the given duration",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        strictFlag,
				Usage:       "Exit nonzero when any test fails or errors",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        tuiFlag,
				Usage:       "Run with interactive Terminal User Interface (TUI) showing real-time progress",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        interactiveFlag,
				Aliases:     []string{"i"},
				Usage:       "Enter an interactive console after a run that leaves failed or errored tests",
				Value:       false,
				DefaultText: "false",
				TakesFile:   false,
				OnlyOnce:    true,
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
	logger.Debug("Running run command")

	root := cmd.String(rootFlag)

	cfg, err := config.Load(ctx, root, cmd.String(configFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Error(fmt.Sprintf("Invalid configuration: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	projects, err := project.Discover(ctx, root, cfg.Layout)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to discover test projects: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if len(projects) == 0 {
		logger.Error(fmt.Sprintf("No test projects found under %s", root))
		return cli.Exit(cliExitStr, 1)
	}

	selected, err := project.Select(projects, cmd.StringSlice(testsFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Invalid test selection: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	var report *harness.Report

	var execErr error

	switch cmd.Bool(tuiFlag) {
	case true:
		logger.Info("Starting interactive TUI mode...")

		buf := new(bytes.Buffer)
		// Create a TUI-friendly context so log output does not disturb the display
		tuiCtx := ctxlog.NewForTUI(ctx, buf)

		runner := tui.NewRunner(tuiCtx, selected)

		report, execErr = runner.Run(tuiCtx, func(ctx context.Context, reporter progress.Reporter) (*harness.Report, error) {
			h := harness.New(root, cfg,
				harness.WithOutput(io.Discard),
				harness.WithReporter(reporter),
			)

			return h.Run(ctx, selected)
		})

		buf.WriteTo(cmd.Writer) //nolint:errcheck // Write any buffered log output to the command writer
	default:
		h := harness.New(root, cfg,
			harness.WithOutput(cmd.Writer),
			harness.WithVerbose(cmd.Bool(verboseFlag)),
		)

		report, execErr = h.Run(ctx, selected)
	}

	if report != nil {
		report.WriteSummary(cmd.Writer) //nolint:errcheck
	}

	if execErr != nil {
		logger.Error(fmt.Sprintf("Run aborted: %s", execErr.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if cmd.Bool(interactiveFlag) && report != nil && !report.Ok() {
		if err := console(ctx, cmd, cfg, root, projects, report); err != nil {
			logger.Error(fmt.Sprintf("Console error: %s", err.Error()))
			return cli.Exit(cliExitStr, 1)
		}
	}

	if cfg.Strict && (report == nil || !report.Ok()) {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// applyFlags overlays command line settings on the loaded configuration.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.Bool(noAutoparFlag) {
		cfg.Autopar = false
	}

	if cmd.Bool(strictFlag) {
		cfg.Strict = true
	}

	if cmd.IsSet(timeoutFlag) {
		cfg.Timeout = cmd.Duration(timeoutFlag)
	}
}

// console enters the interactive post-run console.
func console(
	ctx context.Context,
	cmd *cli.Command,
	cfg *config.Config,
	root string,
	projects []project.Project,
	report *harness.Report,
) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		ctxlog.Debug(ctx, "stdin is not a terminal, skipping interactive console")
		return nil
	}

	h := harness.New(root, cfg,
		harness.WithOutput(cmd.Writer),
		harness.WithVerbose(cmd.Bool(verboseFlag)),
	)

	c := prompt.New(h, projects, report, prompt.WithOutput(cmd.Writer))

	return c.Run(ctx)
}
