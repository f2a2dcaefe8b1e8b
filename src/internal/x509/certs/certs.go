// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")

	// ErrParseCRL indicates a failure to parse a certificate revocation list.
	ErrParseCRL = errors.New("x509certs: failed to parse CRL")

	// ErrNoData indicates empty input.
	ErrNoData = errors.New("x509certs: no data")
)

// Certificate provides methods to decode and encode [X.509] certificates and
// revocation lists. It maintains the PEM block types it accepts.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
	crlBlockType  string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: "CERTIFICATE",
		crlBlockType:  "X509 CRL",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// decodePEMBlock decodes a PEM block and checks its type.
func (c *Certificate) decodePEMBlock(data []byte, blockType string) (*pem.Block, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}
	if block.Type != blockType {
		return nil, ErrInvalidBlockType
	}
	return block, nil
}

// decodePEMBlocks returns the payload of every block of blockType.
func (c *Certificate) decodePEMBlocks(data []byte, blockType string) ([][]byte, error) {
	var ders [][]byte
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != blockType {
			return nil, ErrInvalidBlockType
		}
		ders = append(ders, block.Bytes)
		data = rest
	}
	return ders, nil
}

// DecodeMultiple decodes one or more certificates from PEM, concatenated DER,
// or a PKCS#7 bundle.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	if c.IsPEM(data) {
		ders, err := c.decodePEMBlocks(data, c.certBlockType)
		if err != nil {
			return nil, err
		}

		certs := make([]*x509.Certificate, 0, len(ders))
		for _, der := range ders {
			cert, err := x509.ParseCertificate(der)
			if err != nil {
				return nil, ErrParseCertificate
			}
			certs = append(certs, cert)
		}

		return certs, nil
	}

	certs, err := x509.ParseCertificates(data)
	if err == nil {
		return certs, nil
	}

	return c.decodePKCS7(data)
}

// Decode decodes a single certificate from data.
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	if c.IsPEM(data) {
		block, err := c.decodePEMBlock(data, c.certBlockType)
		if err != nil {
			return nil, err
		}

		data = block.Bytes
	}

	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	certs, err := c.decodePKCS7(data)
	if err != nil {
		return nil, err
	}

	return certs[0], nil
}

// decodePKCS7 parses a PKCS#7 bundle using Cloudflare's library.
func (c *Certificate) decodePKCS7(data []byte) ([]*x509.Certificate, error) {
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}

	return p.Content.SignedData.Certificates, nil
}

// DecodeCRL decodes a single revocation list from PEM or DER data.
func (c *Certificate) DecodeCRL(data []byte) (*x509.RevocationList, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	if c.IsPEM(data) {
		block, err := c.decodePEMBlock(data, c.crlBlockType)
		if err != nil {
			return nil, err
		}

		data = block.Bytes
	}

	crl, err := x509.ParseRevocationList(data)
	if err != nil {
		return nil, ErrParseCRL
	}

	return crl, nil
}

// DecodeMultipleCRL decodes every revocation list from PEM data, or a single
// one from DER data.
func (c *Certificate) DecodeMultipleCRL(data []byte) ([]*x509.RevocationList, error) {
	if !c.IsPEM(data) {
		crl, err := c.DecodeCRL(data)
		if err != nil {
			return nil, err
		}
		return []*x509.RevocationList{crl}, nil
	}

	ders, err := c.decodePEMBlocks(data, c.crlBlockType)
	if err != nil {
		return nil, err
	}

	crls := make([]*x509.RevocationList, 0, len(ders))
	for _, der := range ders {
		crl, err := x509.ParseRevocationList(der)
		if err != nil {
			return nil, ErrParseCRL
		}
		crls = append(crls, crl)
	}

	return crls, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	block := pem.Block{
		Type:  c.certBlockType,
		Bytes: cert.Raw,
	}
	return pem.EncodeToMemory(&block)
}

// EncodeDER encodes a certificate to DER format.
func (c *Certificate) EncodeDER(cert *x509.Certificate) []byte { return cert.Raw }

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodePEM(cert)...)
	}

	return data
}

// EncodeMultipleDER encodes multiple certificates to DER format.
func (c *Certificate) EncodeMultipleDER(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodeDER(cert)...)
	}

	return data
}

// EncodeCRLPEM encodes a revocation list to PEM format.
func (c *Certificate) EncodeCRLPEM(crl *x509.RevocationList) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: c.crlBlockType, Bytes: crl.Raw})
}

// EncodeCRLDER encodes a revocation list to DER format.
func (c *Certificate) EncodeCRLDER(crl *x509.RevocationList) []byte { return crl.Raw }
