// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	x509pki "github.com/H0llyW00dzZ/x509-chain-verifier/src/internal/x509/pki"
)

// ErrNoPeerCertificates indicates a TLS server that presented no certificates.
var ErrNoPeerCertificates = errors.New("x509chain: no certificates received from server")

// FetchRemotePool establishes a TLS connection to the target host and returns
// the presented leaf and the remaining handshake certificates as a pool for
// [Resolver.BuildChain]. The server certificate is not verified; trust is
// decided later by [Resolver.VerifyChain].
func FetchRemotePool(ctx context.Context, hostname string, port int, timeout time.Duration) (*x509pki.Certificate, *x509pki.CertificateCollection, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		// We just want the certificates, not to verify them here.
		Config: &tls.Config{InsecureSkipVerify: true, ServerName: hostname},
	}

	addr := net.JoinHostPort(hostname, strconv.Itoa(port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	peerCerts := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, nil, ErrNoPeerCertificates
	}

	return x509pki.NewCertificate(peerCerts[0]), x509pki.CollectionOf(peerCerts[1:]...), nil
}
