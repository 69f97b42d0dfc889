// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package invoke runs external tools and test executables as child processes.
// It captures stdout and stderr as a single combined stream in arrival order,
// enforces an output cap and an optional per-invocation timeout, and forwards
// termination signals to the child. The harness working directory is never
// changed; each child receives its working directory explicitly.
package invoke
