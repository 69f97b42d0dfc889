// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled")

	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled as NO_COLOR is still set")

	t.Setenv("NO_COLOR", "")
	assert.True(t, isColorCapable(), "Expected color output to be enabled as FORCE_COLOR is set and NO_COLOR is unset")
}

func TestControlString(t *testing.T) {
	assert.Equal(t, "\033[1m", ControlString(Bold), "Expected single code control string")
	assert.Equal(t, "\033[1;31m", ControlString(Bold, FgRed), "Expected codes to be semicolon separated")
}

func TestColorizeRespectsEnabled(t *testing.T) {
	old := enabled
	t.Cleanup(func() { enabled = old })

	enabled = false
	assert.Equal(t, "PASS", Colorize("PASS", FgGreen), "Expected plain text when color is disabled")

	enabled = true
	assert.Equal(t, "\033[32mPASS\033[0m", Colorize("PASS", FgGreen))
	assert.Equal(t, "\033[31;1mERROR", ColorizeNoReset("ERROR", FgRed, Bold), "Expected no trailing reset code")
}
