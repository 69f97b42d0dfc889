// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

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

func TestConfigCommand_Defaults(t *testing.T) {
	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newConfigCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "config", "--root", t.TempDir()})
	require.NoError(t, err)
	assert.Zero(t, code)

	out := buf.String()
	assert.Contains(t, out, "build_command: wmake")
	assert.Contains(t, out, "clean_command: wclean")
	assert.Contains(t, out, "launcher: mpirun")
	assert.Contains(t, out, "launcher_procs: 2")
	assert.Contains(t, out, "descriptor_dir: Make")
	assert.Contains(t, out, "descriptor_file: files")
	assert.Contains(t, out, "executable_token: EXE")
	assert.Contains(t, out, "autopar: true")
	assert.Contains(t, out, "strict: false")

	// No timeout by default, so the key is omitted.
	assert.NotContains(t, out, "timeout")
}

func TestConfigCommand_MergedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "wtest.yaml"),
		[]byte("build_command: wmake -j4\ntimeout: 90s\n"),
		0o644,
	))

	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newConfigCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "config", "--root", root})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "build_command: wmake -j4")
	assert.Contains(t, out, "timeout: 1m30s")

	// Unset keys keep their defaults.
	assert.Contains(t, out, "clean_command: wclean")
}

func TestConfigCommand_InvalidFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "wtest.yaml"),
		[]byte("launcher_procs: 0\n"),
		0o644,
	))

	buf := &bytes.Buffer{}

	var code int

	app := testRoot(newConfigCmd(), buf, &code)
	err := app.Run(context.Background(), []string{"wtest", "config", "--root", root})

	assert.Error(t, err)
	assert.Equal(t, 1, code)
}
