// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509engine

import (
	"crypto/x509"
	"errors"
	"time"
)

var (
	// ErrNilCertificate indicates that a nil certificate was handed to the engine.
	ErrNilCertificate = errors.New("x509engine: nil certificate")

	// ErrForeignStore indicates that a store created by another engine was used.
	ErrForeignStore = errors.New("x509engine: store does not belong to this engine")

	// ErrStoreReleased indicates that a store was used after Free.
	ErrStoreReleased = errors.New("x509engine: store already released")
)

// Engine is the capability set the chain builder and verifier depend on.
//
// Alternative cryptographic backends can be substituted by implementing this
// interface; the chain logic never touches [crypto/x509] verification directly.
type Engine interface {
	// NewStore creates a trust store holding certs.
	NewStore(certs []*x509.Certificate) (Store, error)
	// NewContext creates a path-validation context for target against store,
	// with untrusted as the candidate path.
	NewContext(store Store, target *x509.Certificate, untrusted []*x509.Certificate) (Context, error)
	// CheckIssued reports whether issuer's name and key identifier linkage match
	// cert. It does not verify the signature.
	CheckIssued(issuer, cert *x509.Certificate) Status
}

// Store is an ephemeral set of trusted certificates.
type Store interface {
	// Len returns the number of certificates in the store.
	Len() int
	// Free releases the store. Calling Free more than once is a no-op.
	Free()
}

// Context is a single path-validation run.
type Context interface {
	// SetCRLs attaches revocation lists to the context.
	SetCRLs(crls []*x509.RevocationList)
	// SetFlags adds flags to the context.
	SetFlags(flags Flags)
	// SetTime fixes the verification time. The zero time means "now".
	SetTime(t time.Time)
	// Verify runs path validation. It returns 1 on success, 0 on a validation
	// failure and a negative value when the context cannot run.
	Verify() int
	// Status returns the result of the last Verify call.
	Status() Status
	// Chain returns the verified path after a successful Verify.
	Chain() []*x509.Certificate
	// Free releases the context. Calling Free more than once is a no-op.
	Free()
}
