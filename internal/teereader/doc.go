// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader tracks the last complete line of a stream while the
// stream is drained. Build and run invocations pipe their combined output
// through it so progress updates can show what a compiler or test binary
// printed most recently without waiting for the process to exit.
package teereader
