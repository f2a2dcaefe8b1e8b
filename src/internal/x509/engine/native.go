// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509engine

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/georgepadayatti/gopdf/certvalidator/revinfo"
)

// Native is the [Engine] backed by the standard [crypto/x509] verifier,
// extended with revocation list checking and self-signed anchor checks.
//
// Native tracks the number of stores and contexts that have not been released,
// which makes resource leaks observable through [Native.Live].
//
// Thread Safety: Safe for concurrent use. Individual stores and contexts are not.
type Native struct {
	live atomic.Int64
}

// NewNative creates a native engine.
func NewNative() *Native { return &Native{} }

// Live returns the number of stores and contexts that are allocated and not yet freed.
func (n *Native) Live() int64 { return n.live.Load() }

// NewStore creates a trust store holding certs.
//
// Parameters:
//   - certs: Certificates to trust for the lifetime of the store
//
// Returns:
//   - Store: New store, to be released with Free
//   - error: [ErrNilCertificate] if any entry is nil
func (n *Native) NewStore(certs []*x509.Certificate) (Store, error) {
	for i, cert := range certs {
		if cert == nil {
			return nil, fmt.Errorf("store entry %d: %w", i, ErrNilCertificate)
		}
	}

	n.live.Add(1)
	return &nativeStore{
		engine: n,
		certs:  append([]*x509.Certificate(nil), certs...),
	}, nil
}

// NewContext creates a path-validation context for target.
//
// Parameters:
//   - store: Store created by this engine
//   - target: Certificate to validate
//   - untrusted: Candidate path, usually the full chain starting at target
//
// Returns:
//   - Context: New context, to be released with Free
//   - error: If the store is foreign or released, or a certificate is nil
func (n *Native) NewContext(store Store, target *x509.Certificate, untrusted []*x509.Certificate) (Context, error) {
	st, ok := store.(*nativeStore)
	if !ok || st.engine != n {
		return nil, ErrForeignStore
	}
	if st.freed.Load() {
		return nil, ErrStoreReleased
	}
	if target == nil {
		return nil, fmt.Errorf("context target: %w", ErrNilCertificate)
	}
	for i, cert := range untrusted {
		if cert == nil {
			return nil, fmt.Errorf("untrusted entry %d: %w", i, ErrNilCertificate)
		}
	}

	n.live.Add(1)
	return &nativeContext{
		engine:    n,
		store:     st,
		target:    target,
		untrusted: append([]*x509.Certificate(nil), untrusted...),
		status:    StatusUnspecified,
	}, nil
}

// CheckIssued reports whether issuer could have issued cert.
//
// It compares the issuer name of cert with the subject of issuer, the authority
// key identifier of cert with the subject key identifier of issuer (when both
// are present), and requires certificate signing in issuer's key usage when a
// key usage extension is present. Signatures are not verified here.
func (n *Native) CheckIssued(issuer, cert *x509.Certificate) Status {
	if issuer == nil || cert == nil {
		return StatusUnspecified
	}
	if !bytes.Equal(issuer.RawSubject, cert.RawIssuer) {
		return StatusSubjectIssuerMismatch
	}
	if len(cert.AuthorityKeyId) > 0 && len(issuer.SubjectKeyId) > 0 &&
		!bytes.Equal(cert.AuthorityKeyId, issuer.SubjectKeyId) {
		return StatusAKIDSKIDMismatch
	}
	if issuer.KeyUsage != 0 && issuer.KeyUsage&x509.KeyUsageCertSign == 0 {
		return StatusKeyUsageNoCertSign
	}
	return StatusOK
}

type nativeStore struct {
	engine *Native
	certs  []*x509.Certificate
	freed  atomic.Bool
}

func (s *nativeStore) Len() int { return len(s.certs) }

func (s *nativeStore) Free() {
	if s.freed.CompareAndSwap(false, true) {
		s.engine.live.Add(-1)
	}
}

type nativeContext struct {
	engine    *Native
	store     *nativeStore
	target    *x509.Certificate
	untrusted []*x509.Certificate
	crls      []*x509.RevocationList
	flags     Flags
	at        time.Time
	status    Status
	chain     []*x509.Certificate
	freed     atomic.Bool
}

func (c *nativeContext) SetCRLs(crls []*x509.RevocationList) {
	c.crls = append(c.crls[:0], crls...)
}

func (c *nativeContext) SetFlags(flags Flags) { c.flags |= flags }

func (c *nativeContext) SetTime(t time.Time) { c.at = t }

func (c *nativeContext) Status() Status { return c.status }

func (c *nativeContext) Chain() []*x509.Certificate { return c.chain }

func (c *nativeContext) Free() {
	if c.freed.CompareAndSwap(false, true) {
		c.engine.live.Add(-1)
	}
}

func (c *nativeContext) Verify() int {
	c.chain = nil
	if c.freed.Load() || c.store.freed.Load() {
		c.status = StatusUnspecified
		return -1
	}

	c.status, c.chain = c.verify()
	if c.status.OK() {
		return 1
	}
	return 0
}

func (c *nativeContext) verify() (Status, []*x509.Certificate) {
	now := c.at
	if now.IsZero() {
		now = time.Now()
	}

	roots := x509.NewCertPool()
	intermediates := x509.NewCertPool()
	anchors := make(map[string]struct{})
	for _, cert := range c.store.certs {
		if c.flags.Has(FlagPartialChain) || selfIssued(cert) {
			roots.AddCert(cert)
			anchors[string(cert.Raw)] = struct{}{}
			continue
		}
		intermediates.AddCert(cert)
	}
	if len(anchors) == 0 {
		return StatusUnableToGetIssuerCertLocally, nil
	}
	for _, cert := range c.untrusted {
		if _, ok := anchors[string(cert.Raw)]; !ok {
			intermediates.AddCert(cert)
		}
	}

	chains, err := c.target.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return statusFromError(err, now), nil
	}

	status := StatusUnspecified
	for i, chain := range chains {
		s := c.checkChain(chain, now)
		if s.OK() {
			return StatusOK, chain
		}
		if i == 0 {
			status = s
		}
	}
	return status, nil
}

// checkChain applies the checks crypto/x509 does not perform itself.
func (c *nativeContext) checkChain(chain []*x509.Certificate, now time.Time) Status {
	top := chain[len(chain)-1]
	if c.flags.Has(FlagCheckSelfSignedSignature) && selfIssued(top) && !signedBySelf(top) {
		return StatusCertSignatureFailure
	}

	if !c.flags.Has(FlagCRLCheck) {
		return StatusOK
	}

	last := 0
	if c.flags.Has(FlagCRLCheckAll) {
		last = len(chain) - 1
	}
	for i := 0; i <= last; i++ {
		cert := chain[i]
		issuer := cert
		if i < len(chain)-1 {
			issuer = chain[i+1]
		} else if !selfIssued(cert) {
			// The top of a partial chain has no issuer in the path to vouch for its CRL.
			return StatusUnableToGetCRLIssuer
		}
		if s := c.checkRevocation(cert, issuer, now); !s.OK() {
			return s
		}
	}
	return StatusOK
}

// checkRevocation looks up the CRLs published by issuer and reports whether cert
// is listed. At least one usable CRL is required.
func (c *nativeContext) checkRevocation(cert, issuer *x509.Certificate, now time.Time) Status {
	status := StatusUnableToGetCRL
	usable := false
	for _, crl := range c.crls {
		if crl == nil || !crlIssuedBy(crl, issuer) {
			continue
		}
		info := &revinfo.CRLInfo{Raw: crl.Raw, CRL: crl, Issuer: issuer}
		if err := info.Validate(now); err != nil {
			status = statusFromCRLError(err)
			continue
		}
		usable = true
		if info.CheckCertificate(cert).Status == revinfo.StatusRevoked {
			return StatusCertRevoked
		}
	}
	if usable {
		return StatusOK
	}
	return status
}

func crlIssuedBy(crl *x509.RevocationList, issuer *x509.Certificate) bool {
	if !bytes.Equal(crl.RawIssuer, issuer.RawSubject) {
		return false
	}
	return len(crl.AuthorityKeyId) == 0 || len(issuer.SubjectKeyId) == 0 ||
		bytes.Equal(crl.AuthorityKeyId, issuer.SubjectKeyId)
}

func statusFromCRLError(err error) Status {
	switch {
	case errors.Is(err, revinfo.ErrCRLNotYetValid):
		return StatusCRLNotYetValid
	case errors.Is(err, revinfo.ErrCRLExpired):
		return StatusCRLHasExpired
	}
	return StatusCRLSignatureFailure
}

func statusFromError(err error, now time.Time) Status {
	var (
		invalid  x509.CertificateInvalidError
		unknown  x509.UnknownAuthorityError
		insecure x509.InsecureAlgorithmError
	)

	switch {
	case errors.As(err, &invalid):
		switch invalid.Reason {
		case x509.Expired:
			if invalid.Cert != nil && now.Before(invalid.Cert.NotBefore) {
				return StatusCertNotYetValid
			}
			return StatusCertHasExpired
		case x509.NotAuthorizedToSign:
			return StatusInvalidCA
		case x509.TooManyIntermediates:
			return StatusPathLengthExceeded
		case x509.IncompatibleUsage, x509.CANotAuthorizedForExtKeyUsage:
			return StatusInvalidPurpose
		case x509.CANotAuthorizedForThisName, x509.UnconstrainedName,
			x509.NameConstraintsWithoutSANs, x509.TooManyConstraints:
			return StatusPermittedViolation
		}
		return StatusUnspecified
	case errors.As(err, &unknown):
		return StatusUnableToGetIssuerCertLocally
	case errors.As(err, &insecure):
		return StatusCertSignatureFailure
	}
	return StatusUnspecified
}

// selfIssued reports whether subject and issuer match, including key identifiers
// when both are present.
func selfIssued(cert *x509.Certificate) bool {
	if !bytes.Equal(cert.RawSubject, cert.RawIssuer) {
		return false
	}
	return len(cert.AuthorityKeyId) == 0 || len(cert.SubjectKeyId) == 0 ||
		bytes.Equal(cert.AuthorityKeyId, cert.SubjectKeyId)
}

func signedBySelf(cert *x509.Certificate) bool {
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}
