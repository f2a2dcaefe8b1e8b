// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/x509-chain-verifier/src/config"
	x509chain "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/testpki"
	"github.com/H0llyW00dzZ/x509-chain-verifier/src/logger"
)

type toolFixture struct {
	h            *testpki.Hierarchy
	leafB64      string
	intermediate string
	root         string
	crlClean     string
	crlRevoked   string
}

func newToolFixture(t *testing.T) *toolFixture {
	t.Helper()

	h := testpki.NewHierarchy(t)
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		return path
	}

	rootCRL := h.Root.RevocationList(t)
	return &toolFixture{
		h:            h,
		leafB64:      base64.StdEncoding.EncodeToString(testpki.PEM(h.Leaf.Cert)),
		intermediate: write("intermediate.pem", testpki.PEM(h.Intermediate.Cert)),
		root:         write("root.pem", testpki.PEM(h.Root.Cert)),
		crlClean:     write("clean.crl", testpki.CRLPEM(h.Intermediate.RevocationList(t), rootCRL)),
		crlRevoked:   write("revoked.crl", testpki.CRLPEM(h.Intermediate.RevocationList(t, h.Leaf.Cert), rootCRL)),
	}
}

func (f *toolFixture) pool() string { return f.intermediate + "," + f.root }

func startTestServer(t *testing.T, cfg *config.Config, log *logger.JSONLogger) *mcptest.Server {
	t.Helper()

	srv := mcptest.NewUnstartedServer(t)
	for _, def := range createTools() {
		srv.AddTools(server.ServerTool{
			Tool:    def.Tool,
			Handler: wrapHandler(def, cfg, log.WithComponent("tools")),
		})
	}

	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Close)
	return srv
}

func callTool(t *testing.T, srv *mcptest.Server, name string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := srv.Client().CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	return resultText(result), result.IsError
}

func TestTools(t *testing.T) {
	f := newToolFixture(t)
	srv := startTestServer(t, config.Default(), logger.NewJSONLogger(nil, true))

	tests := []struct {
		name           string
		toolName       string
		args           map[string]any
		expectError    bool
		expectContains []string
		expectAbsent   []string
	}{
		{
			name:     "build_chain pem",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"format":      "pem",
			},
			expectContains: []string{
				"1: leaf.example.com", "2: Test Intermediate CA", "3: Test Root CA",
				"Total: 3 certificate(s)", "BEGIN CERTIFICATE",
			},
		},
		{
			name:     "build_chain defaults to configured format",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
			},
			expectContains: []string{"BEGIN CERTIFICATE"},
		},
		{
			name:     "build_chain tree",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"format":      "tree",
			},
			expectContains: []string{"├── [✓] leaf.example.com (End-Entity Certificate)", "└── [✓] Test Root CA (Root CA Certificate)"},
		},
		{
			name:     "build_chain der is base64",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"format":      "der",
			},
			expectAbsent: []string{"BEGIN CERTIFICATE"},
		},
		{
			name:     "build_chain pool given as PEM text",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        string(testpki.PEM(f.h.Intermediate.Cert, f.h.Root.Cert)),
			},
			expectContains: []string{"Total: 3 certificate(s)"},
		},
		{
			name:     "build_chain intermediate only",
			toolName: "build_chain",
			args: map[string]any{
				"certificate":       f.leafB64,
				"pool":              f.pool(),
				"intermediate_only": true,
			},
			expectContains: []string{"BEGIN CERTIFICATE"},
		},
		{
			name:     "build_chain missing issuer",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.root,
			},
			expectError:    true,
			expectContains: []string{"failed to build certificate chain", "chain top is not self-signed"},
		},
		{
			name:     "build_chain invalid format",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"format":      "xml",
			},
			expectError:    true,
			expectContains: []string{`invalid format "xml"`},
		},
		{
			name:           "build_chain missing certificate",
			toolName:       "build_chain",
			args:           map[string]any{},
			expectError:    true,
			expectContains: []string{"certificate parameter required"},
		},
		{
			name:     "build_chain undecodable certificate",
			toolName: "build_chain",
			args: map[string]any{
				"certificate": "not a certificate!",
			},
			expectError:    true,
			expectContains: []string{"failed to read certificate"},
		},
		{
			name:     "verify_chain trusted",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
			},
			expectContains: []string{
				"Certificate chain verification: trusted", "Status: ok (code 0)",
				"Trust anchor: CN=Test Root CA", "Revocation: not checked",
			},
		},
		{
			name:     "verify_chain clean CRLs",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"crls":        f.crlClean,
			},
			expectContains: []string{"verification: trusted", "checked against 2 CRL(s)"},
		},
		{
			name:     "verify_chain revoked leaf",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"crls":        f.crlRevoked,
			},
			expectContains: []string{"verification: untrusted", "certificate revoked (code 23)", "[✗] leaf.example.com"},
		},
		{
			name:     "verify_chain before issuance",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"check_time":  "1999-01-01T00:00:00Z",
			},
			expectContains: []string{"verification: untrusted", "certificate is not yet valid"},
		},
		{
			name:     "verify_chain invalid check time",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"check_time":  "yesterday",
			},
			expectError:    true,
			expectContains: []string{"invalid check_time"},
		},
		{
			name:     "verify_chain invalid format",
			toolName: "verify_chain",
			args: map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"format":      "der",
			},
			expectError:    true,
			expectContains: []string{`invalid format "der"`},
		},
		{
			name:     "fetch_remote_chain unreachable",
			toolName: "fetch_remote_chain",
			args: map[string]any{
				"hostname": "127.0.0.1",
				"port":     1,
			},
			expectError:    true,
			expectContains: []string{"failed to fetch remote certificates"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := callTool(t, srv, tt.toolName, tt.args)
			assert.Equal(t, tt.expectError, isError, text)
			for _, s := range tt.expectContains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.expectAbsent {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestVerifyChain_PartialChain(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	root := testpki.NewRoot(t, "Expired Root CA", testpki.WithValidity(past, past.Add(time.Hour)))
	intermediate := root.IssueCA(t, "Test Intermediate CA")
	leaf := intermediate.IssueLeaf(t, "leaf.example.com")

	args := func(extra map[string]any) map[string]any {
		a := map[string]any{
			"certificate": string(testpki.PEM(leaf.Cert)),
			"pool":        string(testpki.PEM(intermediate.Cert, root.Cert)),
		}
		for k, v := range extra {
			a[k] = v
		}
		return a
	}

	srv := startTestServer(t, config.Default(), logger.NewJSONLogger(nil, true))

	text, isError := callTool(t, srv, "verify_chain", args(nil))
	require.False(t, isError, text)
	assert.Contains(t, text, "verification: untrusted")
	assert.Contains(t, text, "certificate has expired")

	text, isError = callTool(t, srv, "verify_chain", args(map[string]any{"partial_chain": true}))
	require.False(t, isError, text)
	assert.Contains(t, text, "verification: trusted")

	cfg := config.Default()
	cfg.Verify.PartialChain = true
	partial := startTestServer(t, cfg, logger.NewJSONLogger(nil, true))

	text, isError = callTool(t, partial, "verify_chain", args(nil))
	require.False(t, isError, text)
	assert.Contains(t, text, "verification: trusted")

	text, isError = callTool(t, partial, "verify_chain", args(map[string]any{"partial_chain": false}))
	require.False(t, isError, text)
	assert.Contains(t, text, "verification: untrusted")
}

func TestVerifyChain_JSONReport(t *testing.T) {
	f := newToolFixture(t)
	srv := startTestServer(t, config.Default(), logger.NewJSONLogger(nil, true))

	tests := []struct {
		name        string
		crls        string
		wantTrusted bool
		wantStatus  string
	}{
		{name: "trusted", crls: f.crlClean, wantTrusted: true, wantStatus: "ok"},
		{name: "revoked", crls: f.crlRevoked, wantTrusted: false, wantStatus: "certificate revoked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := callTool(t, srv, "verify_chain", map[string]any{
				"certificate": f.leafB64,
				"pool":        f.pool(),
				"crls":        tt.crls,
				"format":      "json",
			})
			require.False(t, isError, text)

			var report x509chain.ChainReport
			require.NoError(t, json.Unmarshal([]byte(text), &report))
			require.NotNil(t, report.Trusted)
			assert.Equal(t, tt.wantTrusted, *report.Trusted)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, 3, report.ChainLength)
		})
	}
}

func TestFetchRemoteChain(t *testing.T) {
	f := newToolFixture(t)

	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.TLS = &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{f.h.Leaf.Cert.Raw, f.h.Intermediate.Cert.Raw},
			PrivateKey:  f.h.Leaf.Key,
		}},
	}
	ts.StartTLS()
	defer ts.Close()

	host, portStr, err := net.SplitHostPort(ts.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	srv := startTestServer(t, config.Default(), logger.NewJSONLogger(nil, true))

	t.Run("presented certificates only", func(t *testing.T) {
		text, isError := callTool(t, srv, "fetch_remote_chain", map[string]any{
			"hostname": host,
			"port":     port,
		})
		assert.True(t, isError, text)
		assert.Contains(t, text, "chain top is not self-signed")
	})

	t.Run("with root and verification", func(t *testing.T) {
		text, isError := callTool(t, srv, "fetch_remote_chain", map[string]any{
			"hostname": host,
			"port":     port,
			"pool":     f.root,
			"verify":   true,
			"format":   "tree",
		})
		require.False(t, isError, text)
		assert.Contains(t, text, "(trusted)")
		assert.Contains(t, text, "Total: 3 certificate(s)")
		assert.Contains(t, text, "[✓] Test Root CA")
	})
}

func TestWrapHandler_Logging(t *testing.T) {
	f := newToolFixture(t)

	var buf bytes.Buffer
	srv := startTestServer(t, config.Default(), logger.NewJSONLogger(&buf, false))

	_, isError := callTool(t, srv, "build_chain", map[string]any{"certificate": f.leafB64, "pool": f.pool()})
	require.False(t, isError)
	_, isError = callTool(t, srv, "build_chain", map[string]any{"certificate": f.leafB64})
	require.True(t, isError)

	logs := buf.String()
	assert.Equal(t, 2, strings.Count(logs, `"message":"call build_chain"`))
	assert.Contains(t, logs, `"component":"tools"`)
	assert.Contains(t, logs, "call build_chain returned error: failed to build certificate chain")
}

func TestReadInput(t *testing.T) {
	h := testpki.NewHierarchy(t)
	pemData := testpki.PEM(h.Leaf.Cert)
	path := filepath.Join(t.TempDir(), "leaf.pem")
	require.NoError(t, os.WriteFile(path, pemData, 0o600))

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "file path", input: path, want: pemData},
		{name: "PEM text", input: "\n" + string(pemData), want: bytes.TrimSpace(pemData)},
		{name: "base64 DER", input: base64.StdEncoding.EncodeToString(h.Leaf.Cert.Raw), want: h.Leaf.Cert.Raw},
		{name: "garbage", input: "%%%", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "a.pem", want: []string{"a.pem"}},
		{name: "comma separated with blanks", input: " a.pem , ,b.pem ", want: []string{"a.pem", "b.pem"}},
		{name: "PEM is not split", input: "-----BEGIN CERTIFICATE-----\na,b\n", want: []string{"-----BEGIN CERTIFICATE-----\na,b\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitInputs(tt.input))
		})
	}
}
