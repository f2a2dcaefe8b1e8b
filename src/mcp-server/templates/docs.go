// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
//
// The package embeds the markdown served to MCP clients: the server
// instructions template and the verification status code reference.
// [MagicEmbed] is the default [EmbedFS] implementation.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/x509-chain-verifier/src/mcp-server/templates"
//
//	content, err := templates.MagicEmbed.ReadFile(templates.StatusCodes)
//	if err != nil {
//		return fmt.Errorf("failed to read status codes: %w", err)
//	}
package templates
