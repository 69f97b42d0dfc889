// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package harness

import "github.com/matt-FFFFFF/wtest/internal/color"

// Outcome classifies a single project's result.
type Outcome int

const (
	// Pass means the project built and its executable exited zero.
	Pass Outcome = iota
	// Fail means the project built but its executable exited nonzero.
	Fail
	// Error means the build failed or the executable could not be determined.
	Error
)

// String returns the outcome word used in verbose output.
func (o Outcome) String() string {
	switch o {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Glyph returns the single-character marker printed per project.
func (o Outcome) Glyph() string {
	switch o {
	case Pass:
		return "."
	case Fail:
		return "F"
	case Error:
		return "E"
	default:
		return "?"
	}
}

// Colorize paints s according to the outcome when the terminal supports it.
func (o Outcome) Colorize(s string) string {
	switch o {
	case Pass:
		return color.Colorize(s, color.FgGreen)
	case Fail:
		return color.Colorize(s, color.FgRed)
	case Error:
		return color.Colorize(s, color.FgRed, color.Bold)
	default:
		return s
	}
}
