// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/wtest/internal/color"
)

var (
	// ErrMarshalAttribute is returned when an attribute cannot be marshalled.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when the destination writer fails.
	ErrIoWrite = errors.New("error when writing to output")
)

const (
	// TimeFormat is the format used for timestamps in log messages.
	TimeFormat = "[15:04:05.000]"

	attrIndent = 2
)

// PrettyHandler renders slog records as a coloured single-header line with
// the attributes pretty-printed as JSON underneath. It delegates attribute
// flattening to an inner JSON handler so ReplaceAttr, groups and levels
// behave exactly as the standard library defines them.
type PrettyHandler struct {
	inner            slog.Handler
	replace          func([]string, slog.Attr) slog.Attr
	buf              *bytes.Buffer
	mu               *sync.Mutex
	attrFmt          *colorjson.Formatter
	writer           io.Writer
	colour           bool
	outputEmptyAttrs bool
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs returns a handler whose records carry the given attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.inner = h.inner.WithAttrs(attrs)

	return &derived
}

// WithGroup returns a handler that starts a group with the given name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	derived := *h
	derived.inner = h.inner.WithGroup(name)

	return &derived
}

// paint applies the codes when colour output is enabled for this handler.
func (h *PrettyHandler) paint(str string, codes ...color.Code) string {
	if !h.colour {
		return str
	}

	return color.Colorize(str, codes...)
}

// computeAttrs runs the record through the inner JSON handler and decodes
// the result, yielding the attributes with all slog semantics applied.
func (h *PrettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mu.Lock()
	defer func() {
		h.buf.Reset()
		h.mu.Unlock()
	}()

	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any

	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}

	return attrs, nil
}

// headerAttr applies the user ReplaceAttr function to one of the built-in
// header attributes, honouring removal.
func (h *PrettyHandler) headerAttr(attr slog.Attr) (string, bool) {
	if h.replace != nil {
		attr = h.replace([]string{}, attr)
	}

	if attr.Equal(slog.Attr{}) {
		return "", false
	}

	return attr.Value.String(), true
}

// levelColour picks the header colour for a level.
func levelColour(l slog.Level) color.Code {
	switch {
	case l <= slog.LevelDebug:
		return color.FgWhite
	case l <= slog.LevelInfo:
		return color.FgCyan
	case l < slog.LevelWarn:
		return color.FgBlue
	case l < slog.LevelError:
		return color.FgYellow
	case l <= slog.LevelError+1:
		return color.FgRed
	default:
		return color.FgHiMagenta
	}
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	var level, timestamp, msg string

	if v, ok := h.headerAttr(slog.Attr{
		Key:   slog.LevelKey,
		Value: slog.AnyValue(r.Level),
	}); ok {
		level = h.paint(v+":", levelColour(r.Level))
	}

	if v, ok := h.headerAttr(slog.Attr{
		Key:   slog.TimeKey,
		Value: slog.StringValue(r.Time.Format(TimeFormat)),
	}); ok {
		timestamp = h.paint(v, color.FgWhite)
	}

	if v, ok := h.headerAttr(slog.Attr{
		Key:   slog.MessageKey,
		Value: slog.StringValue(r.Message),
	}); ok {
		msg = h.paint(v, color.FgHiWhite)
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	var rendered []byte

	if h.outputEmptyAttrs || len(attrs) > 0 {
		rendered, err = h.attrFmt.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrMarshalAttribute, err)
		}
	}

	out := strings.Builder{}

	for _, part := range []string{timestamp, level, msg} {
		if len(part) > 0 {
			out.WriteString(part)
			out.WriteString(" ")
		}
	}

	if len(rendered) > 0 {
		out.WriteString(h.paint(string(rendered), color.FgHiWhite))
	}

	out.WriteString("\n")

	if _, err := io.WriteString(h.writer, out.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

// suppressDefaults removes the built-in attributes from the inner handler's
// output. They are rendered in the header line instead.
func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey ||
			a.Key == slog.LevelKey ||
			a.Key == slog.MessageKey {
			return slog.Attr{}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}

// NewPrettyHandler creates a new PrettyHandler with the given options.
func NewPrettyHandler(handlerOptions *slog.HandlerOptions, options ...Option) *PrettyHandler {
	if handlerOptions == nil {
		handlerOptions = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}
	handler := &PrettyHandler{
		buf: buf,
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       handlerOptions.Level,
			AddSource:   handlerOptions.AddSource,
			ReplaceAttr: suppressDefaults(handlerOptions.ReplaceAttr),
		}),
		replace: handlerOptions.ReplaceAttr,
		mu:      &sync.Mutex{},
		attrFmt: colorjson.NewFormatter(),
	}
	handler.attrFmt.Indent = attrIndent

	for _, opt := range options {
		opt(handler)
	}

	// The attribute formatter carries its own colour switch.
	handler.attrFmt.DisabledColor = !handler.colour

	return handler
}

// Option implements a functional options pattern for PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets the destination writer for the PrettyHandler.
func WithDestinationWriter(writer io.Writer) Option {
	return func(h *PrettyHandler) {
		h.writer = writer
	}
}

// WithColour enables colour output for the PrettyHandler.
func WithColour() Option {
	return func(h *PrettyHandler) {
		h.colour = true
	}
}

// WithAutoColour enables colour output when the terminal supports it.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		h.colour = color.Enabled()
	}
}

// WithOutputEmptyAttrs renders the attribute object even when it is empty.
func WithOutputEmptyAttrs() Option {
	return func(h *PrettyHandler) {
		h.outputEmptyAttrs = true
	}
}
