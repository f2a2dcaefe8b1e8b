// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"crypto/x509"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509chain "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/chain"
	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/testpki"
)

func TestChain_Visualization(t *testing.T) {
	h := testpki.NewHierarchy(t)
	chain := x509chain.NewChain(x509pki.CollectionOf(h.Leaf.Cert, h.Intermediate.Cert, h.Root.Cert))
	revoked := map[string]string{
		x509chain.StatusKey(chain.Items(1)): "revoked",
	}

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "ASCII tree",
			testFunc: func(t *testing.T) {
				tree := chain.RenderASCIITree(nil)
				lines := strings.Split(strings.TrimSpace(tree), "\n")
				require.Len(t, lines, 3)
				assert.Equal(t, "├── [✓] leaf.example.com (End-Entity Certificate)", lines[0])
				assert.Equal(t, "├── [✓] Test Intermediate CA (Intermediate CA Certificate)", lines[1])
				assert.Equal(t, "└── [✓] Test Root CA (Root CA Certificate)", lines[2])
			},
		},
		{
			name: "ASCII tree flags non-good status",
			testFunc: func(t *testing.T) {
				tree := chain.RenderASCIITree(revoked)
				assert.Contains(t, tree, "[✗] Test Intermediate CA")
				assert.Contains(t, tree, "[✓] leaf.example.com")
			},
		},
		{
			name: "ASCII tree empty chain",
			testFunc: func(t *testing.T) {
				assert.Equal(t, "No certificates in chain", x509chain.NewChain(nil).RenderASCIITree(nil))
			},
		},
		{
			name: "Markdown table",
			testFunc: func(t *testing.T) {
				table := chain.RenderTable(revoked)
				assert.Contains(t, table, "leaf.example.com")
				assert.Contains(t, table, "Test Intermediate CA")
				assert.Contains(t, table, "256-bit ECDSA")
				assert.Contains(t, table, "revoked")
				assert.Contains(t, table, "|")
			},
		},
		{
			name: "Markdown table empty chain",
			testFunc: func(t *testing.T) {
				assert.Equal(t, "No certificates to display", x509chain.NewChain(nil).RenderTable(nil))
			},
		},
		{
			name: "JSON report",
			testFunc: func(t *testing.T) {
				data, err := chain.ToVisualizationJSON(revoked)
				require.NoError(t, err)

				var report x509chain.ChainReport
				require.NoError(t, json.Unmarshal(data, &report))

				assert.Equal(t, 3, report.ChainLength)
				require.Len(t, report.Certificates, 3)
				require.Len(t, report.Relationships, 2)

				assert.Equal(t, "End-Entity Certificate", report.Certificates[0].Role)
				assert.Equal(t, "revoked", report.Certificates[1].Status)
				assert.Equal(t, x509chain.StatusGood, report.Certificates[2].Status)
				assert.True(t, report.Certificates[2].SelfSigned)
				assert.True(t, report.Certificates[1].IsCA)
				assert.Equal(t, "ECDSA", report.Certificates[0].PublicKeyAlgorithm)
				assert.Equal(t, 256, report.Certificates[0].KeySize)
				assert.Equal(t, x509chain.Relationship{FromIndex: 1, ToIndex: 2, Type: "signed_by"}, report.Relationships[1])
			},
		},
		{
			name: "Single certificate role",
			testFunc: func(t *testing.T) {
				single := x509chain.NewChain(x509pki.CollectionOf(h.Root.Cert))
				assert.Contains(t, single.RenderASCIITree(nil), "Self-Signed Certificate")
				assert.Empty(t, single.Report(nil).Relationships)
			},
		},
		{
			name: "Top CA without self-signature",
			testFunc: func(t *testing.T) {
				partial := x509chain.NewChain(x509pki.CollectionOf(h.Leaf.Cert, h.Intermediate.Cert))
				assert.Contains(t, partial.RenderASCIITree(nil), "Top CA Certificate")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestChain_VisualizationStatusKeys(t *testing.T) {
	h := testpki.NewHierarchy(t)
	sameSerial := func(tmpl *x509.Certificate) {
		tmpl.SerialNumber = new(big.Int).Set(h.Leaf.Cert.SerialNumber)
	}
	other := testpki.NewRoot(t, "Other Root CA", sameSerial)

	t.Run("shared serial flags only the keyed certificate", func(t *testing.T) {
		chain := x509chain.NewChain(x509pki.CollectionOf(h.Leaf.Cert, other.Cert))
		statuses := map[string]string{x509chain.StatusKey(chain.Leaf()): "revoked"}

		report := chain.Report(statuses)
		require.Len(t, report.Certificates, 2)
		assert.Equal(t, report.Certificates[0].SerialNumber, report.Certificates[1].SerialNumber)
		assert.Equal(t, "revoked", report.Certificates[0].Status)
		assert.Equal(t, x509chain.StatusGood, report.Certificates[1].Status)

		tree := chain.RenderASCIITree(statuses)
		assert.Contains(t, tree, "[✗] leaf.example.com")
		assert.Contains(t, tree, "[✓] Other Root CA")
	})

	t.Run("empty member does not panic", func(t *testing.T) {
		chain := x509chain.NewChain(x509pki.NewCertificateCollection(
			x509pki.NewCertificate(h.Leaf.Cert), x509pki.NewCertificate(nil)))

		var report *x509chain.ChainReport
		require.NotPanics(t, func() { report = chain.Report(nil) })
		require.Len(t, report.Certificates, 2)
		assert.Empty(t, report.Certificates[1].Thumbprint)
		assert.Equal(t, 0, report.Certificates[1].KeySize)
		assert.NotPanics(t, func() { chain.RenderTable(nil) })
		assert.NotPanics(t, func() { chain.RenderASCIITree(nil) })
	})
}
