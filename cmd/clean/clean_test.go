// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package clean

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("command tests use POSIX shell scripts")
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func setupSuite(t *testing.T, wcleanBody string) (string, string) {
	t.Helper()

	root := t.TempDir()

	for _, name := range []string{"alpha", "beta"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "Make"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "Make", "files"),
			[]byte("test.C\n\nEXE = $(FOAM_USER_APPBIN)/unitTest\n"),
			0o644,
		))
	}

	logFile := filepath.Join(t.TempDir(), "clean.log")

	tools := t.TempDir()
	writeScript(t, filepath.Join(tools, "wclean"), wcleanBody)
	t.Setenv("PATH", tools+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("CLEAN_LOG", logFile)

	return root, logFile
}

func testRoot(cmd *cli.Command, buf *bytes.Buffer, code *int) *cli.Command {
	return &cli.Command{
		Name:      "wtest",
		Commands:  []*cli.Command{cmd},
		Writer:    buf,
		ErrWriter: buf,
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			var coder cli.ExitCoder
			if errors.As(err, &coder) {
				*code = coder.ExitCode()
			}
		},
	}
}

func TestCleanCommand(t *testing.T) {
	skipOnWindows(t)

	root, logFile := setupSuite(t, `echo "$1" >> "$CLEAN_LOG"`)
	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newCleanCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "clean", "--root", root})
	require.NoError(t, err)
	assert.Zero(t, code)

	// The clean tool is called once per project with the project name.
	logged, readErr := os.ReadFile(logFile)
	require.NoError(t, readErr)
	assert.Equal(t, "alpha\nbeta\n", string(logged))
}

func TestCleanCommand_Selection(t *testing.T) {
	skipOnWindows(t)

	root, logFile := setupSuite(t, `echo "$1" >> "$CLEAN_LOG"`)
	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newCleanCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "clean", "--root", root, "--tests", "beta"})
	require.NoError(t, err)

	logged, readErr := os.ReadFile(logFile)
	require.NoError(t, readErr)
	assert.Equal(t, "beta\n", string(logged))
}

func TestCleanCommand_ToolFailureIsIgnored(t *testing.T) {
	skipOnWindows(t)

	root, _ := setupSuite(t, "exit 7")
	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newCleanCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "clean", "--root", root})

	require.NoError(t, err)
	assert.Zero(t, code)
}

func TestCleanCommand_UnknownSelection(t *testing.T) {
	skipOnWindows(t)

	root, _ := setupSuite(t, "exit 0")
	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newCleanCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "clean", "--root", root, "--tests", "nope"})

	assert.Error(t, err)
	assert.Equal(t, 1, code)
}
