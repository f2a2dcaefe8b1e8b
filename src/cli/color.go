// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Verdict colors. fatih/color disables them when stdout is not a terminal
// or NO_COLOR is set.
var (
	colorTrusted   = color.New(color.FgGreen, color.Bold)
	colorUntrusted = color.New(color.FgRed, color.Bold)
)

// isTerminalOutput reports whether w is the process stdout. Output written
// to files or buffers is never colored.
func isTerminalOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout
}

// colorize wraps s in c when w is the process stdout.
func colorize(w io.Writer, c *color.Color, s string) string {
	if !isTerminalOutput(w) {
		return s
	}
	return c.Sprint(s)
}

// colorizeTree colors the status icons of an ASCII tree.
func colorizeTree(w io.Writer, tree string) string {
	if !isTerminalOutput(w) {
		return tree
	}
	return strings.NewReplacer(
		"[✓]", colorTrusted.Sprint("[✓]"),
		"[✗]", colorUntrusted.Sprint("[✗]"),
	).Replace(tree)
}
