// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pki

import (
	"crypto/x509"
	"fmt"

	x509certs "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/certs"
)

// CertificateCollection is an ordered sequence of certificates.
//
// For a built chain the order is leaf to root; for a candidate pool it is the
// search order. The collection does not own its certificates.
//
// Thread Safety: Not safe for concurrent mutation. Concurrent readers are fine
// as long as nobody pushes or removes.
type CertificateCollection struct{ items []*Certificate }

// NewCertificateCollection creates a collection holding certs in order.
func NewCertificateCollection(certs ...*Certificate) *CertificateCollection {
	return &CertificateCollection{items: append([]*Certificate(nil), certs...)}
}

// CollectionOf wraps parsed certificates into a collection.
func CollectionOf(certs ...*x509.Certificate) *CertificateCollection {
	items := make([]*Certificate, len(certs))
	for i, cert := range certs {
		items[i] = NewCertificate(cert)
	}
	return &CertificateCollection{items: items}
}

// ImportCertificates decodes every certificate found in PEM, DER or PKCS#7 data.
func ImportCertificates(data []byte) (*CertificateCollection, error) {
	certs, err := x509certs.New().DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("import certificates: %w", err)
	}
	return CollectionOf(certs...), nil
}

// Len returns the number of certificates.
func (c *CertificateCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the certificate at index, or nil when out of range.
func (c *CertificateCollection) Items(index int) *Certificate {
	if index < 0 || index >= c.Len() {
		return nil
	}
	return c.items[index]
}

// Push appends cert.
func (c *CertificateCollection) Push(cert *Certificate) { c.items = append(c.items, cert) }

// Append appends every certificate of other, in order.
func (c *CertificateCollection) Append(other *CertificateCollection) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// Pop removes the last certificate.
func (c *CertificateCollection) Pop() {
	if c.Len() == 0 {
		return
	}
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
}

// RemoveAt removes the certificate at index. Out of range indexes are ignored.
func (c *CertificateCollection) RemoveAt(index int) {
	if index < 0 || index >= c.Len() {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// IndexOf returns the position of cert by Compare, or -1.
func (c *CertificateCollection) IndexOf(cert *Certificate) int {
	for i := 0; i < c.Len(); i++ {
		if c.items[i].Compare(cert) == 0 {
			return i
		}
	}
	return -1
}

// All returns a copy of the underlying slice.
func (c *CertificateCollection) All() []*Certificate {
	if c == nil {
		return nil
	}
	return append([]*Certificate(nil), c.items...)
}

// Internal returns the engine handles in order. Empty certificates map to nil
// so the engine can reject them.
func (c *CertificateCollection) Internal() []*x509.Certificate {
	out := make([]*x509.Certificate, c.Len())
	for i := range out {
		out[i] = c.items[i].Internal()
	}
	return out
}

// CrlCollection is an unordered set of revocation lists, consumed as a whole by
// the validation engine.
type CrlCollection struct{ items []*Crl }

// NewCrlCollection creates a collection holding crls.
func NewCrlCollection(crls ...*Crl) *CrlCollection {
	return &CrlCollection{items: append([]*Crl(nil), crls...)}
}

// CrlCollectionOf wraps parsed revocation lists into a collection.
func CrlCollectionOf(crls ...*x509.RevocationList) *CrlCollection {
	items := make([]*Crl, len(crls))
	for i, crl := range crls {
		items[i] = NewCrl(crl)
	}
	return &CrlCollection{items: items}
}

// ImportCrls decodes every CRL found in PEM or DER data.
func ImportCrls(data []byte) (*CrlCollection, error) {
	crls, err := x509certs.New().DecodeMultipleCRL(data)
	if err != nil {
		return nil, fmt.Errorf("import CRLs: %w", err)
	}
	return CrlCollectionOf(crls...), nil
}

// Len returns the number of revocation lists.
func (c *CrlCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the CRL at index, or nil when out of range.
func (c *CrlCollection) Items(index int) *Crl {
	if index < 0 || index >= c.Len() {
		return nil
	}
	return c.items[index]
}

// Push adds crl.
func (c *CrlCollection) Push(crl *Crl) { c.items = append(c.items, crl) }

// Append adds every CRL of other.
func (c *CrlCollection) Append(other *CrlCollection) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// Internal returns the engine handles, skipping empty entries.
func (c *CrlCollection) Internal() []*x509.RevocationList {
	out := make([]*x509.RevocationList, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if crl := c.items[i].Internal(); crl != nil {
			out = append(out, crl)
		}
	}
	return out
}
