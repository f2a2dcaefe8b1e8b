// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/helper/gc"
	x509chain "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/chain"
	x509engine "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/engine"
	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
)

var errInvalidInput = errors.New("not a valid file path, PEM text or base64 data")

// handleBuildChain builds the chain of the given certificate from the pool.
//
// Returns:
//   - The chain in the requested format, preceded by a numbered summary
//   - An error result when inputs cannot be decoded or no chain can be built
func handleBuildChain(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	format := request.GetString("format", cfg.Output.Format)
	if !config.ValidFormat(format) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q", format)), nil
	}

	cert, err := loadCertificate(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pool, err := loadPool(request.GetString("pool", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := x509chain.New().BuildChain(cert, pool)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build certificate chain: %v", err)), nil
	}

	output, err := formatChain(chain, format, request.GetBool("intermediate_only", false), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format chain: %v", err)), nil
	}

	return mcp.NewToolResultText(chainSummary("Certificate chain built successfully", chain) + output), nil
}

// handleVerifyChain builds the chain of the given certificate and verifies it
// with its own members as trust anchors. An untrusted chain is a regular
// result carrying the status; only unusable inputs produce an error result.
func handleVerifyChain(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}

	cert, err := loadCertificate(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pool, err := loadPool(request.GetString("pool", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	crls, err := loadCrls(request.GetString("crls", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	partialChain := cfg.Verify.PartialChain
	if _, ok := request.GetArguments()["partial_chain"]; ok {
		partialChain = request.GetBool("partial_chain", false)
	}
	r, err := newResolver(cfg, partialChain, request.GetString("check_time", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := r.BuildChain(cert, pool)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build certificate chain: %v", err)), nil
	}

	status, err := r.VerifyChainStatus(chain, crls)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to verify certificate chain: %v", err)), nil
	}

	output, err := verificationReport(chain, status, crls.Len(), request.GetString("format", "text"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleFetchRemoteChain connects to a TLS endpoint, builds the chain of the
// presented leaf from the presented certificates and optionally verifies it.
// The handshake timeout comes from the configuration.
func handleFetchRemoteChain(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error) {
	hostname, err := request.RequireString("hostname")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hostname parameter required: %v", err)), nil
	}
	port := request.GetInt("port", 443)

	format := request.GetString("format", cfg.Output.Format)
	if !config.ValidFormat(format) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q", format)), nil
	}

	extra, err := loadPool(request.GetString("pool", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	leaf, pool, err := x509chain.FetchRemotePool(ctx, hostname, port, cfg.TimeoutDuration())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch remote certificates: %v", err)), nil
	}
	pool.Append(extra)

	r, err := newResolver(cfg, cfg.Verify.PartialChain, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := r.BuildChain(leaf, pool)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build certificate chain: %v", err)), nil
	}

	heading := fmt.Sprintf("Certificate chain for %s:%d", hostname, port)
	var statuses map[string]string
	if request.GetBool("verify", false) {
		status, err := r.VerifyChainStatus(chain, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to verify certificate chain: %v", err)), nil
		}
		statuses = statusMap(chain, status)
		heading += fmt.Sprintf(" (%s)", trustLabel(status))
	}

	output, err := formatChain(chain, format, false, statuses)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format chain: %v", err)), nil
	}

	return mcp.NewToolResultText(chainSummary(heading, chain) + output), nil
}

// readInput resolves a tool argument to raw bytes. The argument is tried as
// a file path first, then as PEM text, then as base64.
func readInput(input string) ([]byte, error) {
	if data, err := gc.ReadFile(input); err == nil {
		return data, nil
	}

	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "-----BEGIN") {
		return []byte(trimmed), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil || len(decoded) == 0 {
		return nil, errInvalidInput
	}
	return decoded, nil
}

// splitInputs splits a comma-separated argument. PEM text is never split
// since it may hold a whole bundle.
func splitInputs(input string) []string {
	if strings.Contains(input, "-----BEGIN") {
		return []string{input}
	}

	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadCertificate(input string) (*x509pki.Certificate, error) {
	data, err := readInput(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	cert, err := x509pki.ImportCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}
	return cert, nil
}

func loadPool(input string) (*x509pki.CertificateCollection, error) {
	pool := x509pki.NewCertificateCollection()
	for i, part := range splitInputs(input) {
		data, err := readInput(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read pool entry %d: %w", i+1, err)
		}
		certs, err := x509pki.ImportCertificates(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pool entry %d: %w", i+1, err)
		}
		pool.Append(certs)
	}
	return pool, nil
}

func loadCrls(input string) (*x509pki.CrlCollection, error) {
	crls := x509pki.NewCrlCollection()
	for i, part := range splitInputs(input) {
		data, err := readInput(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read CRL entry %d: %w", i+1, err)
		}
		list, err := x509pki.ImportCrls(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CRL entry %d: %w", i+1, err)
		}
		crls.Append(list)
	}
	return crls, nil
}

// newResolver creates a resolver from the configuration. A non-empty
// checkTime overrides the configured verification time.
func newResolver(cfg *config.Config, partialChain bool, checkTime string) (*x509chain.Resolver, error) {
	var opts []x509chain.Option
	if partialChain {
		opts = append(opts, x509chain.WithFlags(x509engine.FlagPartialChain))
	}

	at, err := cfg.CheckTime()
	if err != nil {
		return nil, err
	}
	if checkTime != "" {
		if at, err = time.Parse(time.RFC3339, checkTime); err != nil {
			return nil, fmt.Errorf("invalid check_time: %w", err)
		}
	}
	if !at.IsZero() {
		opts = append(opts, x509chain.WithTime(at))
	}

	return x509chain.New(opts...), nil
}

func chainSummary(heading string, chain *x509chain.Chain) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", heading)
	for i, c := range chain.All() {
		fmt.Fprintf(&b, "%d: %s\n", i+1, c.SubjectFriendlyName())
	}
	fmt.Fprintf(&b, "\nTotal: %d certificate(s)\n\n", chain.Len())
	return b.String()
}

// formatChain renders chain in one of the configured output formats. DER
// output is base64 encoded since tool results carry text.
func formatChain(chain *x509chain.Chain, format string, intermediateOnly bool, statuses map[string]string) (string, error) {
	switch format {
	case config.FormatTree:
		return chain.RenderASCIITree(statuses), nil
	case config.FormatTable:
		return chain.RenderTable(statuses), nil
	case config.FormatJSON:
		data, err := chain.ToVisualizationJSON(statuses)
		return string(data), err
	}

	certs := chain.All()
	if intermediateOnly {
		certs = chain.FilterIntermediates()
	}

	dataFormat := x509pki.PEM
	if format == config.FormatDER {
		dataFormat = x509pki.DER
	}

	var out []byte
	for _, c := range certs {
		data, err := c.Export(dataFormat)
		if err != nil {
			return "", err
		}
		out = append(out, data...)
	}

	if format == config.FormatDER {
		return base64.StdEncoding.EncodeToString(out), nil
	}
	return string(out), nil
}

// verificationReport renders the outcome of a verification.
func verificationReport(chain *x509chain.Chain, status x509engine.Status, crlCount int, format string) (string, error) {
	statuses := statusMap(chain, status)

	switch format {
	case "", "text":
		var b strings.Builder
		fmt.Fprintf(&b, "Certificate chain verification: %s\n", trustLabel(status))
		fmt.Fprintf(&b, "Status: %s (code %d)\n", status, int(status))
		if status.OK() {
			fmt.Fprintf(&b, "Trust anchor: %s\n", chain.Root().SubjectName())
		}
		if crlCount > 0 {
			fmt.Fprintf(&b, "Revocation: checked against %d CRL(s)\n", crlCount)
		} else {
			b.WriteString("Revocation: not checked\n")
		}
		b.WriteString("\n")
		b.WriteString(chain.RenderASCIITree(statuses))
		return b.String(), nil
	case config.FormatTree:
		return chain.RenderASCIITree(statuses), nil
	case config.FormatTable:
		return chain.RenderTable(statuses), nil
	case config.FormatJSON:
		report := chain.Report(statuses)
		trusted := status.OK()
		report.Trusted = &trusted
		report.Status = status.String()
		data, err := json.MarshalIndent(report, "", "  ")
		return string(data), err
	}
	return "", fmt.Errorf("invalid format %q", format)
}

// statusMap marks the leaf with status when verification failed. The engine
// reports a single status for the whole path.
func statusMap(chain *x509chain.Chain, status x509engine.Status) map[string]string {
	if status.OK() {
		return nil
	}
	return map[string]string{x509chain.StatusKey(chain.Leaf()): status.String()}
}

func trustLabel(status x509engine.Status) string {
	if status.OK() {
		return "trusted"
	}
	return "untrusted"
}
