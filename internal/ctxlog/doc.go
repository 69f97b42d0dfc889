// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a structured slog logger in the context so every
// layer of the harness logs through the same handler. The level comes from
// the WTEST_LOG_LEVEL environment variable and defaults to warn, keeping the
// glyph stream and summaries free of log noise unless asked for.
//
// The default handler pretty-prints to stderr. NewForTUI swaps in a handler
// writing to a buffer for the period the terminal UI owns the screen.
package ctxlog
