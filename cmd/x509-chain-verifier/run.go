// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/cli"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
	verpkg "github.com/H0llyW00dzZ/x509-chain-verifier/src/version"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitUntrusted = 2
	exitSignal    = 130 // Standard exit code for SIGINT
)

func main() {
	log := logger.NewCLILogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- cli.Execute(ctx, version, log)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Error: %v", err)
		}
		os.Exit(exitCode(err))
	case <-ctx.Done():
		log.Println("Operation cancelled by signal. Exiting...")
		// Give the CLI a moment to clean up
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		os.Exit(exitSignal)
	}
}

// exitCode maps a command error to the process exit status. An untrusted
// chain is distinguished from other failures so scripts can tell them apart.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cli.ErrUntrusted):
		return exitUntrusted
	default:
		return exitError
	}
}
