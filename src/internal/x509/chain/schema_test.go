// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	x509chain "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/chain"
	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/testpki"
)

func loadReportSchema(t *testing.T) *gojsonschema.Schema {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("testdata", "chain-report.schema.json"))
	require.NoError(t, err)

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(path)))
	require.NoError(t, err, "compile schema")
	return schema
}

func validateReport(t *testing.T, schema *gojsonschema.Schema, data []byte) {
	t.Helper()

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)
	for _, desc := range result.Errors() {
		t.Errorf("  - %s", desc)
	}
	assert.True(t, result.Valid(), "report does not match schema:\n%s", data)
}

func TestChainReport_Schema(t *testing.T) {
	schema := loadReportSchema(t)
	h := testpki.NewHierarchy(t)
	self := testpki.NewSelfSigned(t, "self.example.com")
	top := h.Root.IssueCA(t, "Test Top CA")

	tests := []struct {
		name     string
		chain    *x509chain.Chain
		statuses map[string]string
		trusted  *bool
	}{
		{
			name:  "full chain",
			chain: x509chain.NewChain(x509pki.CollectionOf(h.Leaf.Cert, h.Intermediate.Cert, h.Root.Cert)),
		},
		{
			name:  "self-signed",
			chain: x509chain.NewChain(x509pki.CollectionOf(self.Cert)),
		},
		{
			name:     "top CA with failure status",
			chain:    x509chain.NewChain(x509pki.CollectionOf(h.Intermediate.Cert, top.Cert)),
			statuses: map[string]string{h.Intermediate.Cert.SerialNumber.Text(16): "certificate revoked"},
			trusted:  new(bool),
		},
		{
			name:  "empty",
			chain: x509chain.NewChain(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := tt.chain.Report(tt.statuses)
			if tt.trusted != nil {
				report.Trusted = tt.trusted
				report.Status = "certificate revoked"
			}

			data, err := json.Marshal(report)
			require.NoError(t, err)
			validateReport(t, schema, data)
		})
	}
}

func TestChainReport_SchemaRejectsUnknownRole(t *testing.T) {
	schema := loadReportSchema(t)
	h := testpki.NewHierarchy(t)

	report := x509chain.NewChain(x509pki.CollectionOf(h.Leaf.Cert)).Report(nil)
	report.Certificates[0].Role = "Cross Certificate"

	data, err := json.Marshal(report)
	require.NoError(t, err)

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
