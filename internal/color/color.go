// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Code is an ANSI Select Graphic Rendition parameter.
type Code int

// Environment variables controlling colour detection.
const (
	// NoColor disables colour output when set.
	NoColor = "NO_COLOR"
	// ForceColor forces colour output when set and NoColor is not.
	ForceColor = "FORCE_COLOR"
)

const (
	escPrefix = "\033["
	escSuffix = "m"
	escReset  = "\033[0m"

	growPadding = 16
)

// Text style codes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground colours.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// High-intensity foreground colours.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled bool

func init() {
	enabled = isColorCapable()
}

// writeCodes appends a semicolon-separated list of codes to the builder.
func writeCodes(sb *strings.Builder, codes []Code) {
	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}
}

// ControlString renders the bare escape sequence for the codes, for callers
// that manage their own reset.
func ControlString(c ...Code) string {
	sb := strings.Builder{}
	sb.Grow(len(escPrefix) + len(escSuffix) + growPadding)
	sb.WriteString(escPrefix)
	writeCodes(&sb, c)
	sb.WriteString(escSuffix)

	return sb.String()
}

// Colorize wraps str in the escape sequence for the codes and a trailing
// reset. It returns str unchanged when colour output is disabled.
func Colorize(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(escPrefix) + len(escSuffix) + len(escReset) + growPadding)
	sb.WriteString(escPrefix)
	writeCodes(&sb, codes)
	sb.WriteString(escSuffix)
	sb.WriteString(str)
	sb.WriteString(escReset)

	return sb.String()
}

// ColorizeNoReset is Colorize without the trailing reset, so the colour
// carries over into subsequent output.
func ColorizeNoReset(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(escPrefix) + len(escSuffix) + growPadding)
	sb.WriteString(escPrefix)
	writeCodes(&sb, codes)
	sb.WriteString(escSuffix)
	sb.WriteString(str)

	return sb.String()
}

// Enabled reports whether colour output is on for this process. The value
// is fixed at startup: NO_COLOR beats FORCE_COLOR, which beats terminal
// detection.
func Enabled() bool {
	return enabled
}

func isColorCapable() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
