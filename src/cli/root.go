// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/helper/posix"
	x509chain "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/chain"
	x509engine "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/engine"
	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
)

var (
	// ErrInputFileRequired indicates that neither a certificate file nor a
	// remote host was given.
	ErrInputFileRequired = errors.New("cli: certificate file (--cert) or --host is required")

	// ErrUntrusted indicates a chain that failed verification. The wrapping
	// error carries the engine status.
	ErrUntrusted = errors.New("cli: chain is not trusted")

	// ErrInvalidFormat indicates an unknown --format value.
	ErrInvalidFormat = errors.New("cli: invalid output format")
)

// options collects flag values shared by the subcommands.
type options struct {
	configPath       string
	verbose          bool
	certFile         string
	poolFiles        []string
	crlFiles         []string
	host             string
	port             int
	outputFile       string
	format           string
	intermediateOnly bool
	partialChain     bool
	at               string

	cfg *config.Config
}

// Execute runs the root command with the process arguments.
//
// Parameters:
//   - ctx: Context for cancelling remote fetches
//   - version: Version string reported by --version
//   - log: Logger receiving progress and, with --verbose, resolver traces
//
// Returns:
//   - error: Command error; wraps [ErrUntrusted] when a verified chain is rejected
func Execute(ctx context.Context, version string, log logger.Logger) error {
	cmd := NewRootCommand(version, log, os.Stdout)
	cmd.SetArgs(os.Args[1:])
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing results to stdout.
func NewRootCommand(version string, log logger.Logger, stdout io.Writer) *cobra.Command {
	opts := &options{}
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:   exeName,
		Short: "Build and verify X.509 certificate chains offline",
		Example: fmt.Sprintf(`  %[1]s build -c leaf.pem -p bundle.pem -f tree
  %[1]s verify -c leaf.pem -p bundle.pem --crl ca.crl
  %[1]s verify --host example.com -f json`, exeName),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "trace chain building and verification")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the issuance chain of a certificate from a pool of candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts, log)
		},
	}
	addInputFlags(buildCmd, opts)
	buildCmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	buildCmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pem, der, tree, table or json")
	buildCmd.Flags().BoolVarP(&opts.intermediateOnly, "intermediate-only", "i", false, "output intermediate certificates only")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Build a chain and verify it with its own members as trust anchors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, opts, log)
		},
	}
	addInputFlags(verifyCmd, opts)
	verifyCmd.Flags().StringArrayVar(&opts.crlFiles, "crl", nil, "CRL file (PEM or DER), repeatable")
	verifyCmd.Flags().BoolVar(&opts.partialChain, "partial-chain", false, "accept any chain member as trust anchor")
	verifyCmd.Flags().StringVar(&opts.at, "at", "", "verification time in RFC 3339 (default: now)")
	verifyCmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: tree, table or json (default: text)")

	rootCmd.AddCommand(buildCmd, verifyCmd)
	return rootCmd
}

func addInputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.certFile, "cert", "c", "", "certificate to build the chain for (PEM, DER or PKCS#7)")
	cmd.Flags().StringArrayVarP(&opts.poolFiles, "pool", "p", nil, "candidate certificates file, repeatable")
	cmd.Flags().StringVar(&opts.host, "host", "", "collect the certificate and candidates from a TLS endpoint")
	cmd.Flags().IntVar(&opts.port, "port", 443, "port used with --host")
}

// loadInputs reads the target certificate and the candidate pool from files,
// or from a TLS handshake when --host is set. Pool files are appended after
// the handshake certificates.
func loadInputs(ctx context.Context, opts *options) (*x509pki.Certificate, *x509pki.CertificateCollection, error) {
	var (
		cert *x509pki.Certificate
		pool = x509pki.NewCertificateCollection()
	)

	switch {
	case opts.host != "":
		leaf, remote, err := x509chain.FetchRemotePool(ctx, opts.host, opts.port, opts.cfg.TimeoutDuration())
		if err != nil {
			return nil, nil, err
		}
		cert = leaf
		pool.Append(remote)
	case opts.certFile != "":
		data, err := gc.ReadFile(opts.certFile)
		if err != nil {
			return nil, nil, fmt.Errorf("error reading certificate file: %w", err)
		}
		if cert, err = x509pki.ImportCertificate(data); err != nil {
			return nil, nil, fmt.Errorf("error decoding certificate: %w", err)
		}
	default:
		return nil, nil, ErrInputFileRequired
	}

	for _, name := range opts.poolFiles {
		data, err := gc.ReadFile(name)
		if err != nil {
			return nil, nil, fmt.Errorf("error reading pool file: %w", err)
		}
		certs, err := x509pki.ImportCertificates(data)
		if err != nil {
			return nil, nil, fmt.Errorf("error decoding pool file %s: %w", name, err)
		}
		pool.Append(certs)
	}

	return cert, pool, nil
}

func loadCRLs(names []string) (*x509pki.CrlCollection, error) {
	crls := x509pki.NewCrlCollection()
	for _, name := range names {
		data, err := gc.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("error reading CRL file: %w", err)
		}
		list, err := x509pki.ImportCrls(data)
		if err != nil {
			return nil, fmt.Errorf("error decoding CRL file %s: %w", name, err)
		}
		crls.Append(list)
	}
	return crls, nil
}

// newResolver creates a resolver honoring the configuration and verify flags.
func newResolver(cmd *cobra.Command, opts *options, log logger.Logger) (*x509chain.Resolver, error) {
	resolverOpts := []x509chain.Option{x509chain.WithLogger(logger.Discard())}
	if opts.verbose {
		resolverOpts[0] = x509chain.WithLogger(log)
	}

	if opts.partialChain || (!cmd.Flags().Changed("partial-chain") && opts.cfg.Verify.PartialChain) {
		resolverOpts = append(resolverOpts, x509chain.WithFlags(x509engine.FlagPartialChain))
	}

	at, err := opts.cfg.CheckTime()
	if err != nil {
		return nil, err
	}
	if opts.at != "" {
		if at, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return nil, fmt.Errorf("invalid --at: %w", err)
		}
	}
	if !at.IsZero() {
		resolverOpts = append(resolverOpts, x509chain.WithTime(at))
	}

	return x509chain.New(resolverOpts...), nil
}

func runBuild(cmd *cobra.Command, opts *options, log logger.Logger) error {
	format := opts.format
	if format == "" {
		format = opts.cfg.Output.Format
	}
	if !config.ValidFormat(format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	cert, pool, err := loadInputs(cmd.Context(), opts)
	if err != nil {
		return err
	}

	r, err := newResolver(cmd, opts, log)
	if err != nil {
		return err
	}

	chain, err := r.BuildChain(cert, pool)
	if err != nil {
		return err
	}

	out, err := renderChain(chain, format, opts.intermediateOnly, nil)
	if err != nil {
		return err
	}

	if opts.outputFile != "" {
		if err := os.WriteFile(opts.outputFile, out, 0o644); err != nil {
			return fmt.Errorf("error writing to output file: %w", err)
		}
		log.Printf("Wrote %d certificates to %s", chain.Len(), opts.outputFile)
		return nil
	}

	w := cmd.OutOrStdout()
	if format == config.FormatTree {
		out = []byte(colorizeTree(w, string(out)))
	}
	_, err = w.Write(out)
	return err
}

func runVerify(cmd *cobra.Command, opts *options, log logger.Logger) error {
	cert, pool, err := loadInputs(cmd.Context(), opts)
	if err != nil {
		return err
	}
	crls, err := loadCRLs(opts.crlFiles)
	if err != nil {
		return err
	}

	r, err := newResolver(cmd, opts, log)
	if err != nil {
		return err
	}

	chain, err := r.BuildChain(cert, pool)
	if err != nil {
		return err
	}

	status, err := r.VerifyChainStatus(chain, crls)
	if err != nil {
		return err
	}

	statuses := map[string]string{}
	if !status.OK() {
		statuses[x509chain.StatusKey(chain.Leaf())] = status.String()
	}

	w := cmd.OutOrStdout()
	switch opts.format {
	case "", "text":
		if status.OK() {
			fmt.Fprintf(w, "%s: %d certificates, anchor %q\n", colorize(w, colorTrusted, "trusted"), chain.Len(), chain.Root().SubjectName())
		} else {
			fmt.Fprintf(w, "%s: %s\n", colorize(w, colorUntrusted, "untrusted"), status)
		}
	case config.FormatTree:
		if _, err := io.WriteString(w, colorizeTree(w, chain.RenderASCIITree(statuses))); err != nil {
			return err
		}
	case config.FormatTable:
		out, err := renderChain(chain, opts.format, false, statuses)
		if err != nil {
			return err
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	case config.FormatJSON:
		report := chain.Report(statuses)
		trusted := status.OK()
		report.Trusted = &trusted
		report.Status = status.String()
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, opts.format)
	}

	if !status.OK() {
		return fmt.Errorf("%w: %s (code %d)", ErrUntrusted, status, int(status))
	}
	return nil
}

func renderChain(chain *x509chain.Chain, format string, intermediateOnly bool, statuses map[string]string) ([]byte, error) {
	certs := chain.All()
	if intermediateOnly {
		certs = chain.FilterIntermediates()
	}

	switch format {
	case config.FormatTree:
		return []byte(chain.RenderASCIITree(statuses)), nil
	case config.FormatTable:
		return []byte(chain.RenderTable(statuses)), nil
	case config.FormatJSON:
		return chain.ToVisualizationJSON(statuses)
	}

	dataFormat := x509pki.PEM
	if format == config.FormatDER {
		dataFormat = x509pki.DER
	}

	var out []byte
	for _, c := range certs {
		data, err := c.Export(dataFormat)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}
