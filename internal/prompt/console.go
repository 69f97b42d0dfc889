// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/peterh/liner"
)

const (
	promptString = "wtest> "

	buildOutputBanner = "====== BUILD OUTPUT ======"
	runOutputBanner   = "====== RUN OUTPUT ======"
)

// Console is the interactive post-run console.
type Console struct {
	harness  *harness.Harness
	projects []project.Project
	report   *harness.Report
	out      io.Writer
}

// Option configures a Console.
type Option func(*Console)

// WithOutput directs the console's own messages. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

// New returns a Console over the given batch report. The harness is reused
// for reruns, so its output and configuration carry over.
func New(h *harness.Harness, projects []project.Project, report *harness.Report, opts ...Option) *Console {
	c := &Console{
		harness:  h,
		projects: projects,
		report:   report,
		out:      os.Stdout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run reads and dispatches commands until the user leaves.
func (c *Console) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer func() {
		_ = line.Close()
	}()

	line.SetCtrlCAborts(true)
	fmt.Fprintln(c.out, "Entering interactive mode, press `quit` or `exit` or Ctrl+C to leave.")
	fmt.Fprintln(c.out, "Commands: rerun [test...], show <test>, list, help, quit")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		input, err := line.Prompt(promptString)

		switch {
		case err == nil:
			if strings.TrimSpace(input) == "" {
				continue
			}

			line.AppendHistory(input)

			if c.dispatch(ctx, input) {
				return nil
			}

		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(c.out, "Aborted")
			return nil

		default:
			fmt.Fprintln(c.out, "Error reading line: ", err)
			return nil
		}
	}
}

// dispatch executes one console command and reports whether to exit.
func (c *Console) dispatch(ctx context.Context, input string) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "quit", "exit":
		return true

	case "rerun":
		c.rerun(ctx, fields[1:])

	case "show":
		if len(fields) != 2 {
			fmt.Fprintln(c.out, "Usage: show <test>")
			return false
		}

		c.show(fields[1])

	case "list":
		c.list()

	case "help":
		fmt.Fprintln(c.out, "rerun [test...]  re-run the failed tests, or the named ones")
		fmt.Fprintln(c.out, "show <test>      print a test's captured build and run output")
		fmt.Fprintln(c.out, "list             list the latest outcome of every test")
		fmt.Fprintln(c.out, "quit             leave the console")

	default:
		fmt.Fprintf(c.out, "Unknown command %q, try `help`\n", fields[0])
	}

	return false
}

// rerun re-executes the named projects, or every failed and errored project
// when no names are given, and folds the fresh results into the report.
func (c *Console) rerun(ctx context.Context, names []string) {
	if len(names) == 0 {
		names = c.unhealthy()
		if len(names) == 0 {
			fmt.Fprintln(c.out, "All tests passed, nothing to rerun.")
			return
		}
	}

	targets, err := project.Select(c.projects, names)
	if err != nil {
		fmt.Fprintln(c.out, err.Error())
		return
	}

	delta, err := c.harness.Run(ctx, targets)
	if err != nil {
		fmt.Fprintln(c.out, err.Error())
		return
	}

	delta.WriteSummary(c.out) //nolint:errcheck
	c.merge(delta)
}

// unhealthy returns the failed and errored project names in batch order.
func (c *Console) unhealthy() []string {
	if c.report == nil {
		return nil
	}

	var names []string

	for _, res := range c.report.Results {
		if res.Outcome != harness.Pass {
			names = append(names, res.Project.Name)
		}
	}

	return names
}

// merge folds fresh results over the previous ones, by project name.
func (c *Console) merge(delta *harness.Report) {
	if c.report == nil {
		c.report = delta
		return
	}

	for _, res := range delta.Results {
		replaced := false

		for i := range c.report.Results {
			if c.report.Results[i].Project.Name == res.Project.Name {
				c.report.Results[i] = res
				replaced = true

				break
			}
		}

		if !replaced {
			c.report.Results = append(c.report.Results, res)
		}
	}
}

// show prints the captured output of one project.
func (c *Console) show(name string) {
	if c.report == nil {
		fmt.Fprintln(c.out, "No results yet.")
		return
	}

	res, ok := c.report.Result(name)
	if !ok {
		fmt.Fprintf(c.out, "No result for %q, try `list`\n", name)
		return
	}

	fmt.Fprintf(c.out, "%s: %s\n", res.Project.Name, res.Outcome.Colorize(res.Outcome.String()))

	if res.Err != nil {
		fmt.Fprintln(c.out, res.Err.Error())
	}

	if len(res.BuildOutput) > 0 {
		fmt.Fprintf(c.out, "\n%s\n\n", buildOutputBanner)
		fmt.Fprintln(c.out, strings.TrimRight(string(res.BuildOutput), "\n"))
	}

	if len(res.RunOutput) > 0 {
		fmt.Fprintf(c.out, "\n%s\n\n", runOutputBanner)
		fmt.Fprintln(c.out, strings.TrimRight(string(res.RunOutput), "\n"))
	}
}

// list prints the latest outcome of every discovered project.
func (c *Console) list() {
	for _, p := range c.projects {
		word := "-"

		if c.report != nil {
			if res, ok := c.report.Result(p.Name); ok {
				word = res.Outcome.Colorize(res.Outcome.String())
			}
		}

		fmt.Fprintf(c.out, "%-24s %s\n", p.Name, word)
	}
}
