// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"errors"
	"fmt"
	"time"

	x509engine "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/engine"
	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
)

var (
	// ErrUndefinedIssuer indicates that no certificate in the pool issued the
	// current tail of the chain. Supplying more certificates is the only remedy.
	ErrUndefinedIssuer = errors.New("x509chain: undefined issuer certificate")

	// ErrEmptyCertificate indicates an issuance check against a certificate
	// without cryptographic material.
	ErrEmptyCertificate = errors.New("x509chain: empty certificate")

	// ErrEngineFailure indicates that the validation engine could not allocate a
	// trust store or validation context. It is not a validation failure.
	ErrEngineFailure = errors.New("x509chain: validation engine failure")

	// ErrIssuerLoop indicates that the issuer walk reached a certificate already
	// in the chain, as happens with mutually cross-signed authorities.
	ErrIssuerLoop = errors.New("x509chain: issuer loop detected")

	// ErrEmptyChain indicates a verification request without certificates.
	ErrEmptyChain = errors.New("x509chain: empty chain")
)

// Chain is an ordered issuance path of [X.509] certificates: element 0 is the
// leaf and every element is issued by the one after it.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	*x509pki.CertificateCollection
}

// NewChain wraps an already ordered collection as a chain.
func NewChain(certs *x509pki.CertificateCollection) *Chain {
	if certs == nil {
		certs = x509pki.NewCertificateCollection()
	}
	return &Chain{CertificateCollection: certs}
}

// Leaf returns the first certificate, or nil for an empty chain.
func (ch *Chain) Leaf() *x509pki.Certificate { return ch.Items(0) }

// Root returns the last certificate, or nil for an empty chain.
func (ch *Chain) Root() *x509pki.Certificate { return ch.Items(ch.Len() - 1) }

// Resolver builds and verifies chains through a validation engine.
//
// A Resolver keeps no per-call state; every store and context it allocates is
// released before the call returns.
//
// Thread Safety: Safe for concurrent use on independent inputs.
type Resolver struct {
	engine x509engine.Engine
	log    logger.Logger
	flags  x509engine.Flags
	at     time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEngine replaces the native engine.
func WithEngine(engine x509engine.Engine) Option {
	return func(r *Resolver) { r.engine = engine }
}

// WithLogger sets the logger used for tracing build and verify steps.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithFlags adds engine flags to every verification, on top of the ones
// VerifyChain always sets.
func WithFlags(flags x509engine.Flags) Option {
	return func(r *Resolver) { r.flags |= flags }
}

// WithTime fixes the verification time.
func WithTime(t time.Time) Option {
	return func(r *Resolver) { r.at = t }
}

// New creates a Resolver. Without options it uses the native engine and a
// silent logger.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = x509engine.NewNative()
	}
	if r.log == nil {
		r.log = logger.Discard()
	}
	return r
}

var defaultResolver = New()

// BuildChain builds a chain with the default resolver.
func BuildChain(cert *x509pki.Certificate, pool *x509pki.CertificateCollection) (*Chain, error) {
	return defaultResolver.BuildChain(cert, pool)
}

// VerifyChain verifies a chain with the default resolver.
func VerifyChain(chain *Chain, crls *x509pki.CrlCollection) (bool, error) {
	return defaultResolver.VerifyChain(chain, crls)
}

// BuildChain reconstructs the issuance path of cert from the candidates in pool.
//
// The walk starts at cert and repeatedly looks up the first pool entry that
// issued the current tail. It stops when the tail is self-signed, or when the
// lookup returns the tail itself. The result never contains duplicates.
//
// Parameters:
//   - cert: Target (leaf) certificate, must not be empty
//   - pool: Candidate intermediates and roots, in search order
//
// Returns:
//   - *Chain: Leaf-first chain
//   - error: [ErrUndefinedIssuer], [ErrIssuerLoop] or [ErrEmptyCertificate], wrapped
func (r *Resolver) BuildChain(cert *x509pki.Certificate, pool *x509pki.CertificateCollection) (*Chain, error) {
	if cert.IsEmpty() {
		return nil, fmt.Errorf("build chain: target: %w", ErrEmptyCertificate)
	}

	chain := NewChain(x509pki.NewCertificateCollection(cert))
	if cert.IsSelfSigned() {
		r.log.Printf("build chain: %s is self-signed", cert.SubjectFriendlyName())
		return chain, nil
	}

	tail := cert
	for {
		issuer, err := r.GetIssued(pool, tail)
		if err != nil {
			return nil, fmt.Errorf("build chain: %w", err)
		}
		if issuer == nil {
			return nil, fmt.Errorf("build chain: %w for %q (chain top is not self-signed)",
				ErrUndefinedIssuer, tail.SubjectName())
		}

		if tail.Compare(issuer) == 0 {
			r.log.Printf("build chain: %s is its own issuer, stopping", tail.SubjectFriendlyName())
			return chain, nil
		}
		if idx := chain.IndexOf(issuer); idx >= 0 {
			return nil, fmt.Errorf("build chain: %w: %q already at position %d",
				ErrIssuerLoop, issuer.SubjectName(), idx)
		}

		chain.Push(issuer)
		r.log.Printf("build chain: %s issued by %s", tail.SubjectFriendlyName(), issuer.SubjectFriendlyName())

		if issuer.IsSelfSigned() {
			return chain, nil
		}
		tail = issuer
	}
}

// VerifyChain validates chain with the chain members as the only trust store.
//
// Revocation checking is enabled for every certificate in the path when crls
// is non-empty. Self-signed anchors always have their signature checked.
//
// Parameters:
//   - chain: Leaf-first chain, usually produced by BuildChain
//   - crls: Revocation lists, may be nil or empty
//
// Returns:
//   - bool: true when the path establishes trust
//   - error: [ErrEmptyChain] or [ErrEngineFailure], wrapped; a failed validation
//     is reported as false with a nil error
func (r *Resolver) VerifyChain(chain *Chain, crls *x509pki.CrlCollection) (bool, error) {
	status, err := r.VerifyChainStatus(chain, crls)
	if err != nil {
		return false, err
	}
	return status.OK(), nil
}

// VerifyChainStatus is VerifyChain reporting the engine status instead of a
// boolean, so callers can explain why a chain is untrusted.
func (r *Resolver) VerifyChainStatus(chain *Chain, crls *x509pki.CrlCollection) (x509engine.Status, error) {
	if chain == nil || chain.Len() == 0 {
		return x509engine.StatusUnspecified, fmt.Errorf("verify chain: %w", ErrEmptyChain)
	}

	certs := chain.Internal()

	store, err := r.engine.NewStore(certs)
	if err != nil {
		return x509engine.StatusUnspecified, fmt.Errorf("verify chain: create store: %w: %w", ErrEngineFailure, err)
	}
	defer store.Free()

	ctx, err := r.engine.NewContext(store, certs[0], certs)
	if err != nil {
		return x509engine.StatusUnspecified, fmt.Errorf("verify chain: create context: %w: %w", ErrEngineFailure, err)
	}
	defer ctx.Free()

	flags := r.flags | x509engine.FlagCheckSelfSignedSignature
	if crls.Len() > 0 {
		ctx.SetCRLs(crls.Internal())
		flags |= x509engine.FlagCRLCheck | x509engine.FlagCRLCheckAll
	}
	ctx.SetFlags(flags)
	if !r.at.IsZero() {
		ctx.SetTime(r.at)
	}

	if ctx.Verify() <= 0 {
		status := ctx.Status()
		if status.OK() {
			status = x509engine.StatusUnspecified
		}
		r.log.Printf("verify chain: %s untrusted: %s", chain.Leaf().SubjectFriendlyName(), status)
		return status, nil
	}

	r.log.Printf("verify chain: %s trusted (%d certificates)", chain.Leaf().SubjectFriendlyName(), chain.Len())
	return x509engine.StatusOK, nil
}

// GetIssued returns the first certificate in pool that issued cert, or nil
// when none did. Pool order decides between several candidates.
func (r *Resolver) GetIssued(pool *x509pki.CertificateCollection, cert *x509pki.Certificate) (*x509pki.Certificate, error) {
	for i := 0; i < pool.Len(); i++ {
		candidate := pool.Items(i)
		ok, err := r.CheckIssued(candidate, cert)
		if err != nil {
			return nil, fmt.Errorf("get issued: pool entry %d: %w", i, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return nil, nil
}

// CheckIssued reports whether issuer's name and key identifier linkage match
// cert. Signatures are left to path validation.
//
// An empty issuer or cert is a usage error and yields [ErrEmptyCertificate].
func (r *Resolver) CheckIssued(issuer, cert *x509pki.Certificate) (bool, error) {
	if issuer.IsEmpty() {
		return false, fmt.Errorf("check issued: issuer: %w", ErrEmptyCertificate)
	}
	if cert.IsEmpty() {
		return false, fmt.Errorf("check issued: subject: %w", ErrEmptyCertificate)
	}

	return r.engine.CheckIssued(issuer.Internal(), cert.Internal()) == x509engine.StatusOK, nil
}

// FilterIntermediates returns the certificates between the leaf and the root.
//
// Returns:
//   - []*x509pki.Certificate: Intermediates in chain order, or nil if none
func (ch *Chain) FilterIntermediates() []*x509pki.Certificate {
	if ch.Len() <= 2 {
		return nil
	}
	return ch.All()[1 : ch.Len()-1]
}
