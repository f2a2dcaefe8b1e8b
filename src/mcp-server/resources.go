// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/mcp-server/templates"
)

// Resource URIs served by the MCP server.
const (
	statusCodesURI = "x509://status-codes"
	configURI      = "config://current"
	versionURI     = "info://version"
)

// createResources returns the static resources of the server.
//
// Parameters:
//   - cfg: Configuration exposed by the config resource
//   - embed: Filesystem holding the status code reference
//   - version: Version exposed by the version resource
func createResources(cfg *config.Config, embed templates.EmbedFS, version string) []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(statusCodesURI, "Verification status codes",
				mcp.WithResourceDescription("Status codes reported by verify_chain and their meaning"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				data, err := embed.ReadFile(templates.StatusCodes)
				if err != nil {
					return nil, fmt.Errorf("failed to read status codes: %w", err)
				}
				return []mcp.ResourceContents{mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "text/markdown",
					Text:     string(data),
				}}, nil
			},
		},
		{
			Resource: mcp.NewResource(configURI, "Server configuration",
				mcp.WithResourceDescription("Configuration in effect for chain building and verification"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return jsonResource(request.Params.URI, cfg)
			},
		},
		{
			Resource: mcp.NewResource(versionURI, "Server version",
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return jsonResource(request.Params.URI, map[string]string{
					"name":    serverName,
					"version": version,
				})
			},
		},
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
