// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the X.509 chain verifier.
// It implements a Cobra-based CLI with two subcommands: build, which orders a
// certificate and its candidate pool into an issuance chain and writes it as
// PEM, DER, JSON, ASCII tree or table, and verify, which additionally
// validates the chain against optional CRLs and reports the result.
// All inputs come from local files or a single TLS handshake; nothing is
// downloaded during building or verification.
package cli
