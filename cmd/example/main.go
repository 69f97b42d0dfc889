// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main demonstrates embedding the wtest harness in another program,
// with signal-aware cancellation and a clean-up pass at the end.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matt-FFFFFF/wtest/internal/config"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/matt-FFFFFF/wtest/internal/signalbroker"
)

func main() {
	// Stop the whole batch if it runs for more than ten minutes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute) //nolint:mnd
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	// Interrupt and termination signals cancel the context, which aborts
	// the current build or run
	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	// Defaults reproduce the wmake/wclean conventions; a wtest.yaml or
	// wtest.hcl under the root overrides them
	cfg, err := config.Load(ctx, root, "")
	if err != nil {
		fmt.Println("Failed to load configuration:", err)
		os.Exit(1)
	}

	projects, err := project.Discover(ctx, root, cfg.Layout)
	if err != nil {
		fmt.Println("Failed to discover test projects:", err)
		os.Exit(1)
	}

	// Stage events from every build and run are available on a channel for
	// embedders that want live status beyond the printed output
	reporter := progress.NewChannelReporter(ctx, 64) //nolint:mnd
	defer reporter.Close()

	go func() {
		for ev := range reporter.Events() {
			ctxlog.Debug(ctx, "progress",
				"project", ev.Project,
				"stage", ev.Stage.String(),
				"event", ev.Type.String(),
				"message", ev.Message,
			)
		}
	}()

	h := harness.New(root, cfg, harness.WithVerbose(true), harness.WithReporter(reporter))

	report, err := h.Run(ctx, projects)
	if err != nil {
		fmt.Println("Run aborted:", err)
		os.Exit(1)
	}

	report.WriteSummary(os.Stdout) //nolint:errcheck

	// Remove the build artifacts before exiting
	if err := h.Clean(ctx, projects); err != nil {
		fmt.Println("Clean aborted:", err)
	}

	if !report.Ok() {
		os.Exit(1)
	}
}
