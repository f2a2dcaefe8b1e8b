// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const inputDescription = "file path, PEM text, or base64-encoded PEM, DER or PKCS#7 data"

// createTools returns all MCP tool definitions with their handlers.
//
// The function defines the following tools:
//   - build_chain: Builds the issuance chain of a certificate from a candidate pool
//   - verify_chain: Builds and verifies a chain, optionally against CRLs
//   - fetch_remote_chain: Builds a chain from the certificates a TLS endpoint presents
func createTools() []ToolDefinitionWithConfig {
	return []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("build_chain",
				mcp.WithDescription("Build the X509 issuance chain of a certificate from a pool of candidate certificates, leaf first"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Target certificate: "+inputDescription),
				),
				mcp.WithString("pool",
					mcp.Description("Candidate intermediates and roots, comma-separated: "+inputDescription),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'pem', 'der', 'tree', 'table' or 'json' (default: configured output format)"),
				),
				mcp.WithBoolean("intermediate_only",
					mcp.Description("Output only intermediate certificates for 'pem' and 'der' (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: handleBuildChain,
			Role:    "chainBuilder",
		},
		{
			Tool: mcp.NewTool("verify_chain",
				mcp.WithDescription("Build the X509 chain of a certificate and verify it using the chain members as the only trust anchors"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description("Target certificate: "+inputDescription),
				),
				mcp.WithString("pool",
					mcp.Description("Candidate intermediates and roots, comma-separated: "+inputDescription),
				),
				mcp.WithString("crls",
					mcp.Description("Certificate revocation lists, comma-separated: "+inputDescription+"; enables revocation checking for every chain member"),
				),
				mcp.WithBoolean("partial_chain",
					mcp.Description("Accept any chain member as trust anchor (default: configured value)"),
				),
				mcp.WithString("check_time",
					mcp.Description("Verification time in RFC 3339 (default: configured time or now)"),
				),
				mcp.WithString("format",
					mcp.Description("Report format: 'text', 'tree', 'table' or 'json' (default: text)"),
					mcp.DefaultString("text"),
				),
			),
			Handler: handleVerifyChain,
			Role:    "chainVerifier",
		},
		{
			Tool: mcp.NewTool("fetch_remote_chain",
				mcp.WithDescription("Collect the certificates a TLS endpoint presents and build the chain of its leaf certificate"),
				mcp.WithString("hostname",
					mcp.Required(),
					mcp.Description("Remote hostname to connect to"),
				),
				mcp.WithNumber("port",
					mcp.Description("Port number (default: 443)"),
					mcp.DefaultNumber(443),
				),
				mcp.WithString("pool",
					mcp.Description("Additional candidates appended after the presented certificates, comma-separated: "+inputDescription),
				),
				mcp.WithBoolean("verify",
					mcp.Description("Verify the built chain (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'pem', 'der', 'tree', 'table' or 'json' (default: configured output format)"),
				),
			),
			Handler: handleFetchRemoteChain,
			Role:    "remoteFetcher",
		},
	}
}
