// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/invoke"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/project"
)

// Harness runs the build-and-run pipeline over a set of test projects.
type Harness struct {
	root     string
	cfg      *config.Config
	out      io.Writer
	verbose  bool
	reporter progress.Reporter
}

// Option configures a Harness.
type Option func(*Harness)

// WithOutput directs the report stream. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Harness) {
		h.out = w
	}
}

// WithVerbose replaces the glyph stream with one line per project.
func WithVerbose(verbose bool) Option {
	return func(h *Harness) {
		h.verbose = verbose
	}
}

// WithReporter emits progress events to r during builds, runs and cleans.
func WithReporter(r progress.Reporter) Option {
	return func(h *Harness) {
		h.reporter = r
	}
}

// New returns a Harness rooted at the directory containing the test projects.
func New(root string, cfg *config.Config, opts ...Option) *Harness {
	h := &Harness{
		root:     root,
		cfg:      cfg,
		out:      os.Stdout,
		reporter: progress.NewNullReporter(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run builds and runs every given project in order and returns the report.
// On context cancellation the batch stops and the partial report is returned
// together with the context error.
func (h *Harness) Run(ctx context.Context, projects []project.Project) (*Report, error) {
	report := &Report{}

	fmt.Fprintln(h.out, "\nRunning OpenFOAM unit tests")
	fmt.Fprintf(h.out, "\nCollected %d tests\n\n", len(projects))

	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if h.verbose {
			fmt.Fprintf(h.out, "Testing %-24s", p.Name+"...")
		}

		res := h.RunSingle(ctx, p)

		if ctx.Err() != nil && errors.Is(res.Err, invoke.ErrAborted) {
			return report, ctx.Err()
		}

		report.add(res)

		if h.verbose {
			fmt.Fprintln(h.out, res.Outcome.Colorize(res.Outcome.String()))
		} else {
			fmt.Fprint(h.out, res.Outcome.Colorize(res.Outcome.Glyph()))
		}
	}

	fmt.Fprint(h.out, "\n\n")

	return report, nil
}

// RunSingle builds one project, resolves its executable and runs it.
func (h *Harness) RunSingle(ctx context.Context, p project.Project) ProjectResult {
	res := ProjectResult{Project: p}

	buildRes := h.buildCommand(p).Run(ctx)
	res.BuildOutput = buildRes.Output
	res.Elapsed += buildRes.Elapsed

	if !buildRes.Ok() {
		res.Outcome = Error
		res.Err = buildRes.Err

		return res
	}

	exe, err := p.Executable(h.cfg.Layout)
	if err != nil {
		res.Outcome = Error
		res.Err = err

		return res
	}

	runCmd, err := h.runCommand(ctx, p, exe)
	if err != nil {
		res.Outcome = Error
		res.Err = err

		return res
	}

	runRes := runCmd.Run(ctx)
	res.RunOutput = runRes.Output
	res.Elapsed += runRes.Elapsed

	if !runRes.Ok() {
		res.Outcome = Fail
		res.Err = runRes.Err

		return res
	}

	res.Outcome = Pass

	return res
}

// Clean runs the clean command for every given project from the harness
// root, passing the project name as the argument. Exit status is ignored:
// failures are logged and the loop continues.
func (h *Harness) Clean(ctx context.Context, projects []project.Project) error {
	fields := strings.Fields(h.cfg.CleanCommand)

	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return err
		}

		var path string

		var args []string

		if len(fields) > 0 {
			path = fields[0]
			args = append(append([]string{}, fields[1:]...), p.Name)
		}

		cmd := &invoke.Command{
			Label:    p.Name + " clean",
			Path:     path,
			Args:     args,
			Dir:      h.root,
			Reporter: h.reporter,
			Project:  p.Name,
			Stage:    progress.StageClean,
		}

		if res := cmd.Run(ctx); !res.Ok() {
			ctxlog.Debug(ctx, "clean command did not succeed",
				"project", p.Name, "exit_code", res.ExitCode, "err", res.Err)
		}
	}

	return nil
}

// buildCommand runs the configured build tool in the project directory.
func (h *Harness) buildCommand(p project.Project) *invoke.Command {
	var path string

	var args []string

	if fields := strings.Fields(h.cfg.BuildCommand); len(fields) > 0 {
		path = fields[0]
		args = fields[1:]
	}

	return &invoke.Command{
		Label:    p.Name + " build",
		Path:     path,
		Args:     args,
		Dir:      p.Dir,
		Timeout:  h.cfg.Timeout,
		Reporter: h.reporter,
		Project:  p.Name,
		Stage:    progress.StageBuild,
	}
}

// runCommand runs the test executable through the shell in the project
// directory. The bare name resolves through PATH, which is where the build
// tool installs test binaries.
func (h *Harness) runCommand(ctx context.Context, p project.Project, exe string) (*invoke.Command, error) {
	cmd, err := invoke.Shell(ctx, p.Name+" run", h.runLine(exe), p.Dir)
	if err != nil {
		return nil, err
	}

	cmd.Timeout = h.cfg.Timeout
	cmd.Reporter = h.reporter
	cmd.Project = p.Name
	cmd.Stage = progress.StageRun

	return cmd, nil
}

// runLine wraps executables whose name contains "parallel" with the
// configured launcher when autopar is enabled.
func (h *Harness) runLine(exe string) string {
	if h.cfg.Autopar && strings.Contains(strings.ToLower(exe), "parallel") {
		return fmt.Sprintf("%s -np %d %s", h.cfg.Launcher, h.cfg.LauncherProcs, exe)
	}

	return exe
}
