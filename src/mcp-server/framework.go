// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
)

// serverName is reported to MCP clients during initialization.
const serverName = "X509 Certificate Chain Verifier"

// ErrMissingConfig is returned by [ServerBuilder.Build] when no configuration
// was supplied.
var ErrMissingConfig = errors.New("mcpserver: configuration is required")

// ToolHandlerWithConfig is the signature of every tool handler. The handler
// receives the server configuration alongside the request.
type ToolHandlerWithConfig func(ctx context.Context, request mcp.CallToolRequest, config *config.Config) (*mcp.CallToolResult, error)

// ToolDefinitionWithConfig pairs an MCP tool definition with its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Workflow role used by the instructions template to refer to the tool
type ToolDefinitionWithConfig struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithConfig
	Role    string
}

// ServerDependencies holds all dependencies needed to create the MCP server.
type ServerDependencies struct {
	Config       *config.Config
	Version      string
	Logger       *logger.JSONLogger
	Tools        []ToolDefinitionWithConfig
	Resources    []server.ServerResource
	Instructions string
}

// ServerBuilder assembles an MCP server from its dependencies.
//
// Example:
//
//	s, err := NewServerBuilder().
//		WithConfig(cfg).
//		WithVersion(version).
//		WithTools(createTools()...).
//		Build()
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a builder with a discarding logger.
func NewServerBuilder() *ServerBuilder {
	return &ServerBuilder{deps: ServerDependencies{
		Logger: logger.NewJSONLogger(nil, true),
	}}
}

// WithConfig sets the configuration handed to every tool handler.
func (b *ServerBuilder) WithConfig(config *config.Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithVersion sets the version reported to clients.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithLogger sets the logger receiving tool call records.
func (b *ServerBuilder) WithLogger(log *logger.JSONLogger) *ServerBuilder {
	if log != nil {
		b.deps.Logger = log
	}
	return b
}

// WithTools appends tool definitions.
func (b *ServerBuilder) WithTools(tools ...ToolDefinitionWithConfig) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithResources appends static resources.
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithInstructions sets the instructions sent to clients on initialization.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// Build creates the MCP server. Every tool handler is wrapped so that calls
// and failures are recorded on the builder's logger under the "tools"
// component.
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if b.deps.Config == nil {
		return nil, ErrMissingConfig
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}
	s := server.NewMCPServer(serverName, b.deps.Version, opts...)

	log := b.deps.Logger.WithComponent("tools")
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, wrapHandler(tool, b.deps.Config, log))
	}

	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	return s, nil
}

func wrapHandler(tool ToolDefinitionWithConfig, cfg *config.Config, log logger.Logger) server.ToolHandlerFunc {
	name := tool.Tool.Name
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Printf("call %s", name)
		result, err := tool.Handler(ctx, request, cfg)
		switch {
		case err != nil:
			log.Printf("call %s failed: %v", name, err)
		case result != nil && result.IsError:
			log.Printf("call %s returned error: %s", name, resultText(result))
		}
		return result, err
	}
}

// resultText joins the text content of a tool result.
func resultText(result *mcp.CallToolResult) string {
	var text string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}
