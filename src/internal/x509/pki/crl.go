// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pki

import (
	"bytes"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/certs"
)

// Reason is a CRL entry reason code (RFC 5280, section 5.3.1).
type Reason int

const (
	ReasonUnspecified          Reason = 0
	ReasonKeyCompromise        Reason = 1
	ReasonCACompromise         Reason = 2
	ReasonAffiliationChanged   Reason = 3
	ReasonSuperseded           Reason = 4
	ReasonCessationOfOperation Reason = 5
	ReasonCertificateHold      Reason = 6
	ReasonRemoveFromCRL        Reason = 8
	ReasonPrivilegeWithdrawn   Reason = 9
	ReasonAACompromise         Reason = 10
)

// String returns a human-readable representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonUnspecified:
		return "unspecified"
	case ReasonKeyCompromise:
		return "key compromise"
	case ReasonCACompromise:
		return "CA compromise"
	case ReasonAffiliationChanged:
		return "affiliation changed"
	case ReasonSuperseded:
		return "superseded"
	case ReasonCessationOfOperation:
		return "cessation of operation"
	case ReasonCertificateHold:
		return "certificate hold"
	case ReasonRemoveFromCRL:
		return "remove from CRL"
	case ReasonPrivilegeWithdrawn:
		return "privilege withdrawn"
	case ReasonAACompromise:
		return "AA compromise"
	default:
		return fmt.Sprintf("unknown reason (%d)", int(r))
	}
}

// Revoked is one entry of a revocation list.
type Revoked struct {
	SerialNumber string // lowercase hex
	Date         time.Time
	Reason       Reason
}

// Crl is an immutable certificate revocation list handle.
type Crl struct{ crl *x509.RevocationList }

// NewCrl wraps crl. A nil crl yields the empty CRL.
func NewCrl(crl *x509.RevocationList) *Crl { return &Crl{crl: crl} }

// ImportCrl decodes a single CRL from PEM or DER data.
func ImportCrl(data []byte) (*Crl, error) {
	crl, err := x509certs.New().DecodeCRL(data)
	if err != nil {
		return nil, fmt.Errorf("import CRL: %w", err)
	}
	return NewCrl(crl), nil
}

// IsEmpty reports whether the handle carries no CRL.
func (c *Crl) IsEmpty() bool { return c == nil || c.crl == nil }

// Internal returns the engine handle, nil for the empty CRL.
func (c *Crl) Internal() *x509.RevocationList {
	if c == nil {
		return nil
	}
	return c.crl
}

// IssuerName returns the issuer distinguished name.
func (c *Crl) IssuerName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.crl.Issuer.String()
}

// IssuerFriendlyName returns the issuer common name.
func (c *Crl) IssuerFriendlyName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.crl.Issuer.CommonName
}

// LastUpdate returns the thisUpdate field.
func (c *Crl) LastUpdate() time.Time {
	if c.IsEmpty() {
		return time.Time{}
	}
	return c.crl.ThisUpdate
}

// NextUpdate returns the nextUpdate field, zero when absent.
func (c *Crl) NextUpdate() time.Time {
	if c.IsEmpty() {
		return time.Time{}
	}
	return c.crl.NextUpdate
}

// CrlNumber returns the CRL number as lowercase hex.
func (c *Crl) CrlNumber() string {
	if c.IsEmpty() || c.crl.Number == nil {
		return ""
	}
	return c.crl.Number.Text(16)
}

// AuthorityKeyID returns the authority key identifier as lowercase hex.
func (c *Crl) AuthorityKeyID() string {
	if c.IsEmpty() {
		return ""
	}
	return hex.EncodeToString(c.crl.AuthorityKeyId)
}

// SignatureAlgorithm returns the name of the signature algorithm.
func (c *Crl) SignatureAlgorithm() string {
	if c.IsEmpty() {
		return ""
	}
	return c.crl.SignatureAlgorithm.String()
}

// Thumbprint returns the SHA-1 fingerprint of the DER encoding.
func (c *Crl) Thumbprint() []byte {
	if c.IsEmpty() {
		return nil
	}
	sum := sha1.Sum(c.crl.Raw)
	return sum[:]
}

// Hash digests the DER encoding with the named algorithm.
func (c *Crl) Hash(algorithm string) ([]byte, error) {
	if c.IsEmpty() {
		return nil, ErrEmpty
	}
	return digest(algorithm, c.crl.Raw)
}

// Revoked returns the revoked entries in list order.
func (c *Crl) Revoked() []Revoked {
	if c.IsEmpty() {
		return nil
	}

	out := make([]Revoked, 0, len(c.crl.RevokedCertificateEntries))
	for _, entry := range c.crl.RevokedCertificateEntries {
		serial := ""
		if entry.SerialNumber != nil {
			serial = entry.SerialNumber.Text(16)
		}
		out = append(out, Revoked{
			SerialNumber: serial,
			Date:         entry.RevocationTime,
			Reason:       Reason(entry.ReasonCode),
		})
	}
	return out
}

// Lists reports whether cert's serial number appears in the list. The issuer is
// not checked; use the validation engine for a full revocation decision.
func (c *Crl) Lists(cert *Certificate) bool {
	if c.IsEmpty() || cert.IsEmpty() {
		return false
	}
	for _, entry := range c.crl.RevokedCertificateEntries {
		if entry.SerialNumber != nil && entry.SerialNumber.Cmp(cert.Internal().SerialNumber) == 0 {
			return true
		}
	}
	return false
}

// Compare orders CRLs by their DER encoding. Zero means same CRL.
func (c *Crl) Compare(other *Crl) int {
	switch {
	case c.IsEmpty() && other.IsEmpty():
		return 0
	case c.IsEmpty():
		return -1
	case other.IsEmpty():
		return 1
	}
	return bytes.Compare(c.crl.Raw, other.crl.Raw)
}

// Equals reports whether both handles refer to the same CRL.
func (c *Crl) Equals(other *Crl) bool { return c.Compare(other) == 0 }

// Export encodes the CRL in the requested format.
func (c *Crl) Export(format DataFormat) ([]byte, error) {
	if c.IsEmpty() {
		return nil, ErrEmpty
	}

	codec := x509certs.New()
	switch format {
	case DER:
		return codec.EncodeCRLDER(c.crl), nil
	case PEM:
		return codec.EncodeCRLPEM(c.crl), nil
	}
	return nil, ErrUnsupportedFormat
}
