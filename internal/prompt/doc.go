// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt provides the interactive console entered after a batch run.
// It lets the user re-run failed projects, inspect captured output and list
// the latest outcomes without leaving the process.
package prompt
