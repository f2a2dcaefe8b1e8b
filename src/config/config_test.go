// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  error
		errMatch string
		check    func(t *testing.T, c *Config)
	}{
		{
			name: "defaults without file",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, FormatPEM, c.Output.Format)
				assert.Equal(t, 10, c.Remote.Timeout)
				assert.False(t, c.Verify.PartialChain)
				assert.False(t, c.Log.Silent)
			},
		},
		{
			name: "JSON file",
			file: "config.json",
			content: `{
				"verify": {"partialChain": true, "checkTime": "2030-01-02T03:04:05Z"},
				"output": {"format": "table"},
				"remote": {"timeoutSeconds": 3},
				"log": {"silent": true, "file": "/tmp/verifier.log"}
			}`,
			check: func(t *testing.T, c *Config) {
				assert.True(t, c.Verify.PartialChain)
				assert.Equal(t, FormatTable, c.Output.Format)
				assert.Equal(t, 3*time.Second, c.TimeoutDuration())
				assert.True(t, c.Log.Silent)
				assert.Equal(t, "/tmp/verifier.log", c.Log.File)

				at, err := c.CheckTime()
				require.NoError(t, err)
				assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), at)
			},
		},
		{
			name: "YAML file",
			file: "config.YML",
			content: "verify:\n  partialChain: true\noutput:\n  format: json\n",
			check: func(t *testing.T, c *Config) {
				assert.True(t, c.Verify.PartialChain)
				assert.Equal(t, FormatJSON, c.Output.Format)
				assert.Equal(t, 10, c.Remote.Timeout)
			},
		},
		{
			name:    "invalid values reset to defaults",
			file:    "config.yaml",
			content: "output:\n  format: xml\nremote:\n  timeoutSeconds: -1\n",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, FormatPEM, c.Output.Format)
				assert.Equal(t, 10, c.Remote.Timeout)
			},
		},
		{
			name:     "malformed JSON",
			file:     "config.json",
			content:  `{"verify": `,
			errMatch: "failed to parse JSON config file",
		},
		{
			name:     "malformed YAML",
			file:     "config.yaml",
			content:  "verify: [unclosed",
			errMatch: "failed to parse YAML config file",
		},
		{
			name:    "invalid check time",
			file:    "config.json",
			content: `{"verify": {"checkTime": "yesterday"}}`,
			wantErr: ErrInvalidCheckTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")

			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file, tt.content)
			}

			c, err := Load(path)
			if tt.wantErr != nil || tt.errMatch != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.errMatch)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoad_EnvironmentPath(t *testing.T) {
	path := writeConfig(t, "env.json", `{"output": {"format": "tree"}}`)
	t.Setenv(EnvConfigFile, path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatTree, c.Output.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectConfigFormat(t *testing.T) {
	assert.Equal(t, configFormatYAML, detectConfigFormat("a.yaml"))
	assert.Equal(t, configFormatYAML, detectConfigFormat("a.YML"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("a.json"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("noext"))
}
