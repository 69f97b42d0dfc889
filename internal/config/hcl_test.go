// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_HCL(t *testing.T) {
	fs := newTestFs(t)
	content := `
harness {
  build_command  = "wmake -j2"
  launcher       = "srun"
  launcher_procs = 8
  autopar        = false
  timeout        = "2m"
}
`
	require.NoError(t, afero.WriteFile(fs, "/harness/wtest.hcl", []byte(content), 0o644))

	cfg, err := Load(context.Background(), "/harness", "")
	require.NoError(t, err)

	assert.Equal(t, "wmake -j2", cfg.BuildCommand)
	assert.Equal(t, "wclean", cfg.CleanCommand, "absent settings keep their defaults")
	assert.Equal(t, "srun", cfg.Launcher)
	assert.Equal(t, 8, cfg.LauncherProcs)
	assert.False(t, cfg.Autopar)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestLoad_HCLWithoutHarnessBlock(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/harness/wtest.hcl", []byte("# nothing here\n"), 0o644))

	cfg, err := Load(context.Background(), "/harness", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_HCLRootVariable(t *testing.T) {
	fs := newTestFs(t)
	content := `
harness {
  build_command = "${root}/tools/build.sh"
}
`
	require.NoError(t, afero.WriteFile(fs, "/harness/wtest.hcl", []byte(content), 0o644))

	cfg, err := Load(context.Background(), "/harness", "")
	require.NoError(t, err)
	assert.Equal(t, "/harness/tools/build.sh", cfg.BuildCommand)
}

func TestLoad_HCLEnvVariable(t *testing.T) {
	t.Setenv("WTEST_TEST_LAUNCHER", "srun")

	fs := newTestFs(t)
	content := `
harness {
  launcher = env["WTEST_TEST_LAUNCHER"]
}
`
	require.NoError(t, afero.WriteFile(fs, "/harness/wtest.hcl", []byte(content), 0o644))

	cfg, err := Load(context.Background(), "/harness", "")
	require.NoError(t, err)
	assert.Equal(t, "srun", cfg.Launcher)
}

func TestLoad_HCLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "syntax error",
			content: "harness {\n",
		},
		{
			name:    "unsupported argument",
			content: "harness {\n  bogus = true\n}\n",
		},
		{
			name:    "timeout not a duration",
			content: "harness {\n  timeout = \"soon\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newTestFs(t)
			require.NoError(t, afero.WriteFile(fs, "/harness/wtest.hcl", []byte(tt.content), 0o644))

			_, err := Load(context.Background(), "/harness", "")
			require.ErrorIs(t, err, ErrParseConfig)
		})
	}
}
