// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
)

// StatusGood is the per-certificate status rendered when none is supplied.
const StatusGood = "good"

// StatusKey returns the key identifying cert in a status map: the lowercase hex
// SHA-1 thumbprint. Serial numbers are only unique per issuer.
func StatusKey(cert *x509pki.Certificate) string {
	return hex.EncodeToString(cert.Thumbprint())
}

// RenderASCIITree renders the chain as an ASCII tree, leaf first.
//
// Parameters:
//   - statuses: Optional map of [StatusKey] values to a status string;
//     anything other than "good" is flagged
//
// Returns:
//   - string: ASCII tree representation of the chain
func (ch *Chain) RenderASCIITree(statuses map[string]string) string {
	if ch.Len() == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	for i, cert := range ch.All() {
		connector := "├── "
		if i == ch.Len()-1 {
			connector = "└── "
		}

		icon := "✓"
		if s, ok := statuses[StatusKey(cert)]; ok && !strings.EqualFold(s, StatusGood) {
			icon = "✗"
		}

		fmt.Fprintf(&result, "%s[%s] %s (%s)\n", connector, icon, cert.SubjectFriendlyName(), ch.role(i))
	}

	return result.String()
}

// RenderTable renders the chain as a markdown table with tablewriter.
//
// Parameters:
//   - statuses: Optional map of [StatusKey] values to a status string
//
// Returns:
//   - string: Markdown table representation of the chain
func (ch *Chain) RenderTable(statuses map[string]string) string {
	if ch.Len() == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "Key", "Status"})

	rows := make([][]string, 0, ch.Len())
	for i, cert := range ch.All() {
		_, keyDesc := publicKeyInfo(cert)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.role(i),
			cert.SubjectFriendlyName(),
			cert.IssuerFriendlyName(),
			cert.NotAfter().Format("2006-01-02"),
			keyDesc,
			statusOf(statuses, cert),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// ChainReport is the JSON document produced by [Chain.ToVisualizationJSON].
type ChainReport struct {
	Timestamp     string             `json:"timestamp"`
	ChainLength   int                `json:"chainLength"`
	Trusted       *bool              `json:"trusted,omitempty"`
	Status        string             `json:"status,omitempty"`
	Certificates  []CertificateEntry `json:"certificates"`
	Relationships []Relationship     `json:"relationships"`
}

// CertificateEntry describes one chain member.
type CertificateEntry struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serialNumber"`
	Thumbprint         string    `json:"thumbprint"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	IsCA               bool      `json:"isCA"`
	SelfSigned         bool      `json:"selfSigned"`
	Status             string    `json:"status"`
}

// Relationship links a certificate to its issuer by chain index.
type Relationship struct {
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	Type      string `json:"type"`
}

// Report builds the structured description of the chain.
func (ch *Chain) Report(statuses map[string]string) *ChainReport {
	report := &ChainReport{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainLength:   ch.Len(),
		Certificates:  make([]CertificateEntry, 0, ch.Len()),
		Relationships: []Relationship{},
	}

	for i, cert := range ch.All() {
		keySize, _ := publicKeyInfo(cert)
		entry := CertificateEntry{
			Index:        i,
			Role:         ch.role(i),
			Subject:      cert.SubjectName(),
			Issuer:       cert.IssuerName(),
			SerialNumber: cert.SerialNumber(),
			Thumbprint:   StatusKey(cert),
			KeySize:      keySize,
			NotBefore:    cert.NotBefore(),
			NotAfter:     cert.NotAfter(),
			SelfSigned:   cert.IsSelfSigned(),
			Status:       statusOf(statuses, cert),
		}
		if internal := cert.Internal(); internal != nil {
			entry.SignatureAlgorithm = internal.SignatureAlgorithm.String()
			entry.PublicKeyAlgorithm = internal.PublicKeyAlgorithm.String()
			entry.IsCA = internal.IsCA
		}
		report.Certificates = append(report.Certificates, entry)
		if i > 0 {
			report.Relationships = append(report.Relationships, Relationship{
				FromIndex: i - 1,
				ToIndex:   i,
				Type:      "signed_by",
			})
		}
	}

	return report
}

// ToVisualizationJSON marshals [Chain.Report] as indented JSON.
func (ch *Chain) ToVisualizationJSON(statuses map[string]string) ([]byte, error) {
	return json.MarshalIndent(ch.Report(statuses), "", "  ")
}

func (ch *Chain) role(index int) string {
	total := ch.Len()
	switch {
	case total == 1:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity Certificate"
	case index == total-1:
		if ch.Items(index).IsSelfSigned() {
			return "Root CA Certificate"
		}
		return "Top CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}

func statusOf(statuses map[string]string, cert *x509pki.Certificate) string {
	if s, ok := statuses[StatusKey(cert)]; ok {
		return s
	}
	return StatusGood
}

func publicKeyInfo(cert *x509pki.Certificate) (int, string) {
	if cert.IsEmpty() {
		return 0, "unknown"
	}
	switch key := cert.Internal().PublicKey.(type) {
	case *rsa.PublicKey:
		bits := key.Size() * 8
		return bits, fmt.Sprintf("%d-bit RSA", bits)
	case *ecdsa.PublicKey:
		bits := key.Curve.Params().BitSize
		return bits, fmt.Sprintf("%d-bit ECDSA", bits)
	case ed25519.PublicKey:
		return 256, "Ed25519"
	}
	return 0, "unknown"
}
