// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the version the server was started with, or the build
// version when [Run] has not been called.
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server over stdio with the chain building and
// verification tools.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.1.0")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from the X509_CHAIN_CONFIG_FILE environment variable
//   - Falls back to default config if environment variable not set
//
// Logging:
//   - Records are JSON, written to log.file or stderr; stdout carries the protocol
//   - log.silent suppresses all records
//   - A failed record write is joined into the returned error
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Returns an error wrapping [context.Canceled] on signal-based shutdown
func Run(version string) error {
	appVersion = version

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logOut, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.NewJSONLogger(logOut, cfg.Log.Silent).WithComponent("mcp-server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	s, err := newServer(cfg, version, log)
	if err != nil {
		return err
	}

	stdioServer := server.NewStdioServer(s)

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	log.Printf("serving %s %s on stdio", serverName, version)

	select {
	case err = <-errChan:
	case <-ctx.Done():
		err = fmt.Errorf("server shutdown: %w", ctx.Err())
	}
	if logErr := log.Err(); logErr != nil {
		err = errors.Join(err, fmt.Errorf("log records dropped: %w", logErr))
	}
	return err
}

// newServer assembles the MCP server with every tool and resource.
func newServer(cfg *config.Config, version string, log *logger.JSONLogger) (*server.MCPServer, error) {
	tools := createTools()

	instructions, err := loadInstructions(templates.MagicEmbed, tools)
	if err != nil {
		return nil, fmt.Errorf("failed to load instructions: %w", err)
	}

	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithVersion(version).
		WithLogger(log).
		WithTools(tools...).
		WithResources(createResources(cfg, templates.MagicEmbed, version)...).
		WithInstructions(instructions).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build server: %w", err)
	}
	return s, nil
}

// openLog returns the log destination configured by log.file, defaulting to
// stderr. The returned function closes the file, if any.
func openLog(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.Log.File == "" {
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
