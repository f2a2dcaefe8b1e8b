// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pki

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/certs"
)

var (
	// ErrEmpty indicates that an operation needs certificate or CRL material but got none.
	ErrEmpty = errors.New("x509pki: empty object")

	// ErrUnsupportedDigest indicates an unknown digest name passed to Hash.
	ErrUnsupportedDigest = errors.New("x509pki: unsupported digest algorithm")

	// ErrUnsupportedFormat indicates an unknown DataFormat.
	ErrUnsupportedFormat = errors.New("x509pki: unsupported data format")
)

// DataFormat selects the encoding used by Export.
type DataFormat int

const (
	// DER is the binary ASN.1 encoding.
	DER DataFormat = iota
	// PEM is the base64 armored encoding.
	PEM
)

// Certificate is an immutable [X.509] certificate handle.
//
// The zero value and a nil *Certificate are both the empty certificate.
//
// [X.509]: https://grokipedia.com/page/X.509
type Certificate struct{ cert *x509.Certificate }

// NewCertificate wraps cert. A nil cert yields the empty certificate.
func NewCertificate(cert *x509.Certificate) *Certificate { return &Certificate{cert: cert} }

// ImportCertificate decodes a single certificate from PEM, DER or PKCS#7 data.
func ImportCertificate(data []byte) (*Certificate, error) {
	cert, err := x509certs.New().Decode(data)
	if err != nil {
		return nil, fmt.Errorf("import certificate: %w", err)
	}
	return NewCertificate(cert), nil
}

// IsEmpty reports whether the handle carries no certificate.
func (c *Certificate) IsEmpty() bool { return c == nil || c.cert == nil }

// Internal returns the engine handle, nil for the empty certificate.
func (c *Certificate) Internal() *x509.Certificate {
	if c == nil {
		return nil
	}
	return c.cert
}

// IsSelfSigned reports whether the certificate names itself as issuer and its
// signature verifies with its own public key.
func (c *Certificate) IsSelfSigned() bool {
	if c.IsEmpty() {
		return false
	}
	if !bytes.Equal(c.cert.RawSubject, c.cert.RawIssuer) {
		return false
	}
	return c.cert.CheckSignature(c.cert.SignatureAlgorithm, c.cert.RawTBSCertificate, c.cert.Signature) == nil
}

// Compare orders certificates by their DER encoding. Zero means same certificate.
// The empty certificate sorts before any other.
func (c *Certificate) Compare(other *Certificate) int {
	switch {
	case c.IsEmpty() && other.IsEmpty():
		return 0
	case c.IsEmpty():
		return -1
	case other.IsEmpty():
		return 1
	}
	if c.cert == other.cert {
		return 0
	}
	return bytes.Compare(c.cert.Raw, other.cert.Raw)
}

// Equals reports whether both handles refer to the same certificate.
func (c *Certificate) Equals(other *Certificate) bool { return c.Compare(other) == 0 }

// SubjectName returns the subject distinguished name.
func (c *Certificate) SubjectName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.cert.Subject.String()
}

// IssuerName returns the issuer distinguished name.
func (c *Certificate) IssuerName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.cert.Issuer.String()
}

// SubjectFriendlyName returns the subject common name.
func (c *Certificate) SubjectFriendlyName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.cert.Subject.CommonName
}

// IssuerFriendlyName returns the issuer common name.
func (c *Certificate) IssuerFriendlyName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.cert.Issuer.CommonName
}

// SerialNumber returns the serial number as lowercase hex.
func (c *Certificate) SerialNumber() string {
	if c.IsEmpty() || c.cert.SerialNumber == nil {
		return ""
	}
	return c.cert.SerialNumber.Text(16)
}

// NotBefore returns the start of the validity period.
func (c *Certificate) NotBefore() time.Time {
	if c.IsEmpty() {
		return time.Time{}
	}
	return c.cert.NotBefore
}

// NotAfter returns the end of the validity period.
func (c *Certificate) NotAfter() time.Time {
	if c.IsEmpty() {
		return time.Time{}
	}
	return c.cert.NotAfter
}

// Version returns the X.509 version (1, 2 or 3).
func (c *Certificate) Version() int {
	if c.IsEmpty() {
		return 0
	}
	return c.cert.Version
}

// KeyUsage returns the key usage bits.
func (c *Certificate) KeyUsage() x509.KeyUsage {
	if c.IsEmpty() {
		return 0
	}
	return c.cert.KeyUsage
}

// Thumbprint returns the SHA-1 fingerprint of the DER encoding.
func (c *Certificate) Thumbprint() []byte {
	if c.IsEmpty() {
		return nil
	}
	sum := sha1.Sum(c.cert.Raw)
	return sum[:]
}

// Hash digests the DER encoding with the named algorithm
// (sha1, sha256, sha384 or sha512).
func (c *Certificate) Hash(algorithm string) ([]byte, error) {
	if c.IsEmpty() {
		return nil, ErrEmpty
	}
	return digest(algorithm, c.cert.Raw)
}

// Export encodes the certificate in the requested format.
func (c *Certificate) Export(format DataFormat) ([]byte, error) {
	if c.IsEmpty() {
		return nil, ErrEmpty
	}

	codec := x509certs.New()
	switch format {
	case DER:
		return codec.EncodeDER(c.cert), nil
	case PEM:
		return codec.EncodePEM(c.cert), nil
	}
	return nil, ErrUnsupportedFormat
}

// String returns the subject name and thumbprint, for logs.
func (c *Certificate) String() string {
	if c.IsEmpty() {
		return "<empty certificate>"
	}
	return fmt.Sprintf("%s [%s]", c.SubjectName(), hex.EncodeToString(c.Thumbprint()))
}

func digest(algorithm string, data []byte) ([]byte, error) {
	var h hash.Hash
	switch strings.ToLower(strings.ReplaceAll(algorithm, "-", "")) {
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	case "sha384":
		h = sha512.New384()
	case "sha512":
		h = sha512.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDigest, algorithm)
	}
	h.Write(data)
	return h.Sum(nil), nil
}
