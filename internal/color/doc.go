// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI color codes and helpers for terminal output.
// Color output is gated by the NO_COLOR and FORCE_COLOR environment
// variables and by terminal detection on stdout.
package color
