// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
)

// ChannelReporter is a Reporter backed by a buffered channel. Invocations
// report into it without blocking; embedders drain Events or attach a
// Listener. Construct with NewChannelReporter, the zero value is not usable.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewChannelReporter returns a ChannelReporter buffering up to bufferSize
// events. Size the buffer for the expected burst, a full buffer drops
// events rather than stalling the invocation that reports them.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	ctx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Report sends the event without blocking. Events reported after Close or
// while the buffer is full are dropped.
func (r *ChannelReporter) Report(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.ch <- event:
	default:
		// Buffer full, drop the event.
	}
}

// Close stops the reporter and waits for attached listeners to exit.
// It is idempotent.
func (r *ChannelReporter) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()

		r.cancel()
		r.wg.Wait()
	})
}

// Listen forwards events to listener from a new goroutine until the
// reporter is closed or its parent context is cancelled.
func (r *ChannelReporter) Listen(listener Listener) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		for {
			select {
			case event, ok := <-r.ch:
				if !ok {
					return
				}

				listener.OnEvent(event)
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

// Events exposes the event stream for callers that want to range over it.
// The channel closes when the reporter is closed.
func (r *ChannelReporter) Events() <-chan Event {
	return r.ch
}
