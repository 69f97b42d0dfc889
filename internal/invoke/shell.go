// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // System32 is the directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // cmdExe is the name of the command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
	shellEnv             = "SHELL"      // Environment variable naming the preferred Unix shell.
)

// Shell creates a Command that runs commandLine through the platform shell
// with dir as the working directory. Relative executables in the command line
// resolve against dir. It returns an error if the command line is empty.
func Shell(ctx context.Context, label, commandLine, dir string) (*Command, error) {
	if commandLine == "" {
		return nil, ErrCommandNotFound
	}

	var args []string

	switch runtime.GOOS {
	case GOOSWindows:
		args = []string{commandSwitchWindows, commandLine}
	default:
		args = []string{commandSwitchUnix, commandLine}
	}

	return &Command{
		Label: label,
		Path:  defaultShell(ctx),
		Args:  args,
		Dir:   dir,
	}, nil
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv(shellEnv); shell != "" {
		ctxlog.Debug(ctx, "Using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
