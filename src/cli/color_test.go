// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorize(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()
	color.NoColor = false

	tree := "├── [✓] leaf\n└── [✗] root\n"

	t.Run("buffer output stays plain", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Equal(t, "trusted", colorize(&buf, colorTrusted, "trusted"))
		assert.Equal(t, tree, colorizeTree(&buf, tree))
	})

	t.Run("stdout is colored", func(t *testing.T) {
		got := colorize(os.Stdout, colorUntrusted, "untrusted")
		assert.Contains(t, got, "\x1b[")
		assert.Contains(t, got, "untrusted")

		gotTree := colorizeTree(os.Stdout, tree)
		assert.Contains(t, gotTree, "\x1b[")
		assert.Contains(t, gotTree, "leaf")
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		color.NoColor = true
		assert.Equal(t, "trusted", colorize(os.Stdout, colorTrusted, "trusted"))
	})
}
