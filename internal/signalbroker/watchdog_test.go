// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settle = 50 * time.Millisecond

func watchInBackground(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) *sync.WaitGroup {
	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel)
	}()

	return &wg
}

func TestWatch_FirstSignalKeepsBatchRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	sigCh := make(chan os.Signal, 1)
	wg := watchInBackground(ctx, sigCh, cancel)

	sigCh <- os.Interrupt

	time.Sleep(settle)
	require.NoError(t, ctx.Err(), "one interrupt must not abort the batch")

	close(sigCh)
	wg.Wait()
}

func TestWatch_RepeatedSignalAbortsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	sigCh := make(chan os.Signal, 2)
	wg := watchInBackground(ctx, sigCh, cancel)

	sigCh <- os.Interrupt
	sigCh <- os.Interrupt

	time.Sleep(settle)
	require.Error(t, ctx.Err(), "a repeated interrupt must abort the batch")

	// Watch closes the channel when it aborts.
	_, open := <-sigCh
	assert.False(t, open)

	wg.Wait()
}

func TestWatch_DistinctSignalsKeepBatchRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	sigCh := make(chan os.Signal, 2)
	wg := watchInBackground(ctx, sigCh, cancel)

	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM

	time.Sleep(settle)
	require.NoError(t, ctx.Err(), "distinct signal types must not abort the batch")

	close(sigCh)
	wg.Wait()
}
