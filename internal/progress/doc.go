// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress provides real-time progress reporting for project invocations.
// It enables real-time TUI updates by allowing the harness to emit progress events
// during builds and runs while maintaining the result-based reporting.
package progress
