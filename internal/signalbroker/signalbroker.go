// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker distributes termination signals to the parts of the
// harness that need them. Every command invocation takes a channel from New
// so an interrupt reaches the child process before anything else; Watch
// layers the batch-level policy on top, where the first signal lets the
// current build or run wind down and a repeat of the same signal aborts the
// whole batch.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
)

// defaultSignals are the signals that should wind a test batch down.
var defaultSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New returns a channel notified on the given signals, or on the default
// termination set when none are named.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = defaultSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "watching signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
