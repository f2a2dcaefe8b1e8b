// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package testpki builds throwaway certificate hierarchies and revocation lists
// for tests. Everything is generated in memory with ECDSA P-256 keys.
package testpki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// Authority is a certificate together with its private key.
type Authority struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// Option adjusts a certificate template before it is signed.
type Option func(*x509.Certificate)

// WithValidity overrides the validity window.
func WithValidity(notBefore, notAfter time.Time) Option {
	return func(tmpl *x509.Certificate) {
		tmpl.NotBefore = notBefore
		tmpl.NotAfter = notAfter
	}
}

// WithKeyUsage overrides the key usage bits.
func WithKeyUsage(usage x509.KeyUsage) Option {
	return func(tmpl *x509.Certificate) { tmpl.KeyUsage = usage }
}

// NewRoot creates a self-signed CA.
func NewRoot(t testing.TB, cn string, opts ...Option) *Authority {
	t.Helper()

	key := newKey(t)
	tmpl := caTemplate(t, cn)
	for _, opt := range opts {
		opt(tmpl)
	}

	return &Authority{Cert: sign(t, tmpl, tmpl, &key.PublicKey, key), Key: key}
}

// NewSelfSigned creates a self-signed end-entity certificate.
func NewSelfSigned(t testing.TB, cn string, opts ...Option) *Authority {
	t.Helper()

	key := newKey(t)
	tmpl := leafTemplate(t, cn)
	for _, opt := range opts {
		opt(tmpl)
	}

	return &Authority{Cert: sign(t, tmpl, tmpl, &key.PublicKey, key), Key: key}
}

// IssueCA creates an intermediate CA signed by a.
func (a *Authority) IssueCA(t testing.TB, cn string, opts ...Option) *Authority {
	t.Helper()

	key := newKey(t)
	tmpl := caTemplate(t, cn)
	for _, opt := range opts {
		opt(tmpl)
	}

	return &Authority{Cert: sign(t, tmpl, a.Cert, &key.PublicKey, a.Key), Key: key}
}

// IssueLeaf creates an end-entity certificate signed by a.
func (a *Authority) IssueLeaf(t testing.TB, cn string, opts ...Option) *Authority {
	t.Helper()

	key := newKey(t)
	tmpl := leafTemplate(t, cn)
	tmpl.DNSNames = []string{cn}
	for _, opt := range opts {
		opt(tmpl)
	}

	return &Authority{Cert: sign(t, tmpl, a.Cert, &key.PublicKey, a.Key), Key: key}
}

// CrossSign issues a CA certificate carrying subject's name and public key,
// signed by a.
func (a *Authority) CrossSign(t testing.TB, subject *Authority) *Authority {
	t.Helper()

	tmpl := caTemplate(t, subject.Cert.Subject.CommonName)
	tmpl.RawSubject = subject.Cert.RawSubject
	tmpl.SubjectKeyId = subject.Cert.SubjectKeyId

	return &Authority{Cert: sign(t, tmpl, a.Cert, &subject.Key.PublicKey, a.Key), Key: subject.Key}
}

// RevocationList creates a CRL signed by a, valid from an hour ago until a day
// from now, listing revoked.
func (a *Authority) RevocationList(t testing.TB, revoked ...*x509.Certificate) *x509.RevocationList {
	t.Helper()

	now := time.Now()
	return a.RevocationListAt(t, now.Add(-time.Hour), now.Add(24*time.Hour), revoked...)
}

// RevocationListAt creates a CRL signed by a with an explicit update window.
func (a *Authority) RevocationListAt(t testing.TB, thisUpdate, nextUpdate time.Time, revoked ...*x509.Certificate) *x509.RevocationList {
	t.Helper()

	entries := make([]x509.RevocationListEntry, 0, len(revoked))
	for _, cert := range revoked {
		entries = append(entries, x509.RevocationListEntry{
			SerialNumber:   cert.SerialNumber,
			RevocationTime: thisUpdate,
			ReasonCode:     1,
		})
	}

	der, err := x509.CreateRevocationList(rand.Reader, &x509.RevocationList{
		Number:                    serial(t),
		ThisUpdate:                thisUpdate,
		NextUpdate:                nextUpdate,
		RevokedCertificateEntries: entries,
	}, a.Cert, a.Key)
	if err != nil {
		t.Fatalf("create revocation list: %v", err)
	}

	crl, err := x509.ParseRevocationList(der)
	if err != nil {
		t.Fatalf("parse revocation list: %v", err)
	}
	return crl
}

// Hierarchy is a three level root, intermediate and leaf setup.
type Hierarchy struct {
	Root         *Authority
	Intermediate *Authority
	Leaf         *Authority
}

// NewHierarchy creates a fresh three level hierarchy.
func NewHierarchy(t testing.TB) *Hierarchy {
	t.Helper()

	root := NewRoot(t, "Test Root CA")
	intermediate := root.IssueCA(t, "Test Intermediate CA")
	leaf := intermediate.IssueLeaf(t, "leaf.example.com")

	return &Hierarchy{Root: root, Intermediate: intermediate, Leaf: leaf}
}

// PEM encodes certs as concatenated CERTIFICATE blocks.
func PEM(certs ...*x509.Certificate) []byte {
	var data []byte
	for _, cert := range certs {
		data = append(data, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})...)
	}
	return data
}

// CRLPEM encodes crls as concatenated X509 CRL blocks.
func CRLPEM(crls ...*x509.RevocationList) []byte {
	var data []byte
	for _, crl := range crls {
		data = append(data, pem.EncodeToMemory(&pem.Block{Type: "X509 CRL", Bytes: crl.Raw})...)
	}
	return data
}

func caTemplate(t testing.TB, cn string) *x509.Certificate {
	now := time.Now()
	return &x509.Certificate{
		SerialNumber:          serial(t),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"testpki"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
}

func leafTemplate(t testing.TB, cn string) *x509.Certificate {
	now := time.Now()
	return &x509.Certificate{
		SerialNumber:          serial(t),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"testpki"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(90 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
}

func sign(t testing.TB, tmpl, parent *x509.Certificate, pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey) *x509.Certificate {
	t.Helper()

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, priv)
	if err != nil {
		t.Fatalf("create certificate %q: %v", tmpl.Subject.CommonName, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate %q: %v", tmpl.Subject.CommonName, err)
	}
	return cert
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func serial(t testing.TB) *big.Int {
	t.Helper()

	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
	if err != nil {
		t.Fatalf("generate serial: %v", err)
	}
	return n
}
