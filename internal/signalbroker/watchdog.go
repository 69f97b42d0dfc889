// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
)

// Watch applies the batch abort policy to sigCh. The first signal of a type
// is logged and otherwise left to the in-flight invocation, which forwards
// it to the child process. A second signal of the same type closes the
// channel and cancels the context, aborting the batch.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Logger(ctx).Info("watchdog", "detail", "repeated signal, aborting batch", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		seen[sig] = struct{}{}

		ctxlog.Logger(ctx).Info("watchdog", "detail", "signal received, letting current invocation finish", "signal", sig.String())
	}
}
