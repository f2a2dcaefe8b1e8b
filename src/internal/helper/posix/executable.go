// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is returned when the executable name cannot be determined.
const DefaultName = "x509-chain-verifier"

// GetExecutableName returns the name of the running executable, as derived
// by [ExecutableName] from os.Args[0].
func GetExecutableName() string {
	if len(os.Args) == 0 {
		return DefaultName
	}
	return ExecutableName(os.Args[0])
}

// ExecutableName returns the base name of arg0 without a trailing ".exe".
//
// Both '/' and '\' are treated as separators regardless of the host OS, so
// a Windows path is reduced correctly on Unix and the other way around:
//   - "/usr/local/bin/myapp" → "myapp"
//   - "C:\bin\myapp.exe" → "myapp"
//   - "" → [DefaultName]
func ExecutableName(arg0 string) string {
	name := filepath.Base(arg0)

	if strings.ContainsAny(name, `/\`) {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}

	name = strings.TrimSuffix(name, ".exe")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultName
	}
	return name
}
