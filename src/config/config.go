// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/helper/gc"
)

// EnvConfigFile names the environment variable consulted when no
// configuration path is given.
const EnvConfigFile = "X509_CHAIN_CONFIG_FILE"

// Output formats accepted by Output.Format.
const (
	FormatPEM   = "pem"
	FormatDER   = "der"
	FormatTree  = "tree"
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	defaultFormat         = FormatPEM
	defaultTimeoutSeconds = 10
)

// ErrInvalidCheckTime indicates a verify.checkTime value that is not RFC 3339.
var ErrInvalidCheckTime = errors.New("config: invalid verify.checkTime")

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config is the shared configuration of the CLI and the MCP server.
//
// It is loaded from a JSON or YAML file, with defaults applied for any
// missing or invalid values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Verify: Settings handed to the chain resolver
	Verify struct {
		// PartialChain: Accept any chain member as trust anchor
		PartialChain bool `json:"partialChain" yaml:"partialChain"`
		// CheckTime: Fixed verification time in RFC 3339, empty means now
		CheckTime string `json:"checkTime,omitempty" yaml:"checkTime,omitempty"`
	} `json:"verify" yaml:"verify"`

	// Output: Presentation of built chains
	Output struct {
		// Format: pem, der, tree, table or json
		Format string `json:"format" yaml:"format"`
	} `json:"output" yaml:"output"`

	// Remote: Settings for collecting candidates from a TLS endpoint
	Remote struct {
		// Timeout: Dial and handshake timeout in seconds
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	} `json:"remote" yaml:"remote"`

	// Log: Logger destination
	Log struct {
		// Silent: Suppress log output
		Silent bool `json:"silent" yaml:"silent"`
		// File: Append logs to this file instead of stderr
		File string `json:"file,omitempty" yaml:"file,omitempty"`
	} `json:"log" yaml:"log"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Output.Format = defaultFormat
	c.Remote.Timeout = defaultTimeoutSeconds
	return c
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatPEM, FormatDER, FormatTree, FormatTable, FormatJSON:
		return true
	}
	return false
}

// CheckTime parses Verify.CheckTime. The zero time means "now".
func (c *Config) CheckTime() (time.Time, error) {
	if c.Verify.CheckTime == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.Verify.CheckTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidCheckTime, err)
	}
	return t, nil
}

// TimeoutDuration returns Remote.Timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Remote.Timeout) * time.Second
}

// detectConfigFormat determines the configuration file format based on file extension,
// case-insensitively.
func detectConfigFormat(configPath string) configFormat {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// Load loads the configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: If the file cannot be read or parsed, or checkTime is invalid
//
// Configuration Priority:
//  1. Default values are set
//  2. X509_CHAIN_CONFIG_FILE is checked if configPath is empty
//  3. Config file values override defaults (if a path is known)
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}
	if configPath == "" {
		return config, nil
	}

	data, err := gc.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
		return nil, err
	}

	// Validate and set defaults for invalid values
	if !ValidFormat(config.Output.Format) {
		config.Output.Format = defaultFormat
	}
	if config.Remote.Timeout <= 0 {
		config.Remote.Timeout = defaultTimeoutSeconds
	}
	if _, err := config.CheckTime(); err != nil {
		return nil, err
	}

	return config, nil
}
