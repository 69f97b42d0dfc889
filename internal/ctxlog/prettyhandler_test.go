// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds a slog record the way the harness logs, message plus
// key-value attributes.
func record(level slog.Level, msg string, args ...any) slog.Record {
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(args...)

	return r
}

func newBufferedHandler(t *testing.T, opts ...Option) (*PrettyHandler, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	opts = append([]Option{WithDestinationWriter(&buf)}, opts...)

	return NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, opts...), &buf
}

func TestNewPrettyHandler_NilOptions(t *testing.T) {
	handler := NewPrettyHandler(nil)
	require.NotNil(t, handler)
	assert.NotNil(t, handler.inner)
	assert.NotNil(t, handler.buf)
	assert.NotNil(t, handler.mu)
	assert.NotNil(t, handler.attrFmt)
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	handler, buf := newBufferedHandler(t)

	for level, header := range map[slog.Level]string{
		slog.LevelDebug: "DEBUG:",
		slog.LevelInfo:  "INFO:",
		slog.LevelWarn:  "WARN:",
		slog.LevelError: "ERROR:",
	} {
		buf.Reset()

		err := handler.Handle(context.Background(), record(level, "building alpha", "project", "alpha", "procs", 2))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, header)
		assert.Contains(t, out, "building alpha")
		assert.Contains(t, out, "project")
		assert.Contains(t, out, "alpha")
		assert.Contains(t, out, "2")
		assert.True(t, strings.HasSuffix(out, "\n"), "records render as full lines")
	}
}

func TestPrettyHandler_Handle_NoAttrs(t *testing.T) {
	handler, buf := newBufferedHandler(t)

	require.NoError(t, handler.Handle(context.Background(), record(slog.LevelInfo, "batch finished")))
	assert.NotContains(t, buf.String(), "{", "an empty attribute set renders nothing")

	handler, buf = newBufferedHandler(t, WithOutputEmptyAttrs())

	require.NoError(t, handler.Handle(context.Background(), record(slog.LevelInfo, "batch finished")))
	assert.Contains(t, buf.String(), "{}", "WithOutputEmptyAttrs renders the empty object")
}

func TestPrettyHandler_Handle_ReplaceAttr(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			if a.Key == "token" {
				return slog.String("token", "[REDACTED]")
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	err := handler.Handle(context.Background(), record(slog.LevelInfo, "fetching config", "token", "hunter2", "url", "git::example"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "git::example")
	assert.True(t, strings.HasPrefix(out, "INFO:"), "removing the time attribute removes the timestamp header")
}

func TestPrettyHandler_DerivedHandlersShareState(t *testing.T) {
	handler, _ := newBufferedHandler(t, WithOutputEmptyAttrs())

	withAttrs, ok := handler.WithAttrs([]slog.Attr{slog.String("project", "alpha")}).(*PrettyHandler)
	require.True(t, ok)
	assert.Same(t, handler.buf, withAttrs.buf)
	assert.Same(t, handler.mu, withAttrs.mu)
	assert.Same(t, handler.writer, withAttrs.writer)
	assert.True(t, withAttrs.outputEmptyAttrs, "derived handlers keep the option set")

	withGroup, ok := handler.WithGroup("batch").(*PrettyHandler)
	require.True(t, ok)
	assert.Same(t, handler.buf, withGroup.buf)
	assert.Same(t, handler.mu, withGroup.mu)
}

func TestPrettyHandler_WithAttrsRendersAttrs(t *testing.T) {
	handler, buf := newBufferedHandler(t)

	derived := handler.WithAttrs([]slog.Attr{slog.String("project", "beta")})

	require.NoError(t, derived.Handle(context.Background(), record(slog.LevelInfo, "running")))
	assert.Contains(t, buf.String(), "beta", "attributes bound with WithAttrs render on every record")
}

type failingHandler struct{}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h *failingHandler) Handle(context.Context, slog.Record) error { return errors.New("inner broke") }
func (h *failingHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return h }
func (h *failingHandler) WithGroup(name string) slog.Handler        { return h }

func TestPrettyHandler_InnerHandlerError(t *testing.T) {
	handler := &PrettyHandler{
		inner: &failingHandler{},
		buf:   &bytes.Buffer{},
		mu:    &sync.Mutex{},
	}

	_, err := handler.computeAttrs(context.Background(), record(slog.LevelInfo, "test"))
	assert.Error(t, err)
}

type failingWriter struct{}

func (w *failingWriter) Write(p []byte) (int, error) { return 0, errors.New("write failed") }

func TestPrettyHandler_WriteError(t *testing.T) {
	handler := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug},
		WithDestinationWriter(&failingWriter{}))

	err := handler.Handle(context.Background(), record(slog.LevelInfo, "test message"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestLevelColour(t *testing.T) {
	assert.NotEqual(t, levelColour(slog.LevelDebug), levelColour(slog.LevelError))
	assert.NotEqual(t, levelColour(slog.LevelInfo), levelColour(slog.LevelWarn))
	assert.NotEqual(t, levelColour(slog.LevelError), levelColour(slog.LevelError+4))
}

func TestFunctionalOptions(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(nil, WithDestinationWriter(&buf), WithColour())
	assert.Equal(t, &buf, handler.writer)
	assert.True(t, handler.colour)
	assert.False(t, handler.attrFmt.DisabledColor, "colour reaches the attribute formatter")

	plain := NewPrettyHandler(nil)
	assert.False(t, plain.colour)
	assert.True(t, plain.attrFmt.DisabledColor)

	// Terminal detection decides, just make sure it constructs.
	_ = NewPrettyHandler(nil, WithAutoColour())
}

func TestSuppressDefaults(t *testing.T) {
	next := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "rewrite" {
			return slog.String("rewrite", "rewritten")
		}

		return a
	}

	fn := suppressDefaults(next)

	assert.True(t, fn(nil, slog.Time(slog.TimeKey, time.Now())).Equal(slog.Attr{}))
	assert.True(t, fn(nil, slog.Any(slog.LevelKey, slog.LevelInfo)).Equal(slog.Attr{}))
	assert.True(t, fn(nil, slog.String(slog.MessageKey, "m")).Equal(slog.Attr{}))
	assert.True(t, fn(nil, slog.String("rewrite", "original")).Equal(slog.String("rewrite", "rewritten")))
	assert.True(t, fn(nil, slog.String("project", "alpha")).Equal(slog.String("project", "alpha")))

	bare := suppressDefaults(nil)
	assert.True(t, bare(nil, slog.String("project", "alpha")).Equal(slog.String("project", "alpha")))
}
