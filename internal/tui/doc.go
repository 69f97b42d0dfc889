// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a live terminal view of a test batch. Each project
// is a row with a status icon, the lifecycle stage, elapsed time and the
// last output line of whatever is currently building or running. When the
// batch completes a summary row appears and the view stays open until the
// user quits.
package tui
