// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"strings"
	"time"
)

// Result represents the outcome of running a single command.
type Result struct {
	Label    string        // Label of the command
	Cmd      string        // The rendered command line, for diagnostics
	ExitCode int           // Exit code, -1 when the process could not start or was killed
	Output   []byte        // Combined stdout and stderr in arrival order
	Err      error         // Error, if any
	Elapsed  time.Duration // Wall-clock duration of the invocation
}

// Ok reports whether the command started, ran to completion and exited zero.
func (r *Result) Ok() bool {
	return r.Err == nil && r.ExitCode == 0
}

// OutputString returns the captured combined output as a string.
func (r *Result) OutputString() string {
	return string(r.Output)
}

// fail records err on the result and forces the exit code to -1.
func (r *Result) fail(err error) {
	r.Err = err
	r.ExitCode = -1
}

// cmdline renders an executable path and its arguments for diagnostics.
func cmdline(path string, args []string) string {
	if len(args) == 0 {
		return path
	}

	return path + " " + strings.Join(args, " ")
}
