// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutableName(t *testing.T) {
	tests := []struct {
		name     string
		arg0     string
		expected string
	}{
		{name: "Relative path", arg0: "./myapp", expected: "myapp"},
		{name: "Just filename", arg0: "myapp", expected: "myapp"},
		{name: "Empty", arg0: "", expected: DefaultName},
		{name: "Unix absolute path", arg0: "/usr/local/bin/myapp", expected: "myapp"},
		{name: "Unix root", arg0: "/", expected: DefaultName},
		{name: "Windows path with .exe", arg0: `C:\Program Files\myapp.exe`, expected: "myapp"},
		{name: "Windows path without .exe", arg0: `C:\Users\user\bin\myapp`, expected: "myapp"},
		{name: "Mixed separators", arg0: `C:\tools/bin\verifier.exe`, expected: "verifier"},
		{name: "Other extensions kept", arg0: "/opt/app.sh", expected: "app.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExecutableName(tt.arg0))
		})
	}
}

func TestGetExecutableName(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"/usr/bin/x509-chain-verifier", "verify"}
	assert.Equal(t, "x509-chain-verifier", GetExecutableName())

	os.Args = nil
	assert.Equal(t, DefaultName, GetExecutableName())
}
