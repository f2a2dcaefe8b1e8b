// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// x509-chain-verifier is a command-line tool for building and verifying
// X.509 certificate chains offline.
//
// Chains are built only from the certificates supplied on the command line
// or presented by a TLS endpoint; nothing is downloaded. Verification uses
// the chain members themselves as the trust store.
//
// # Installation
//
//	go install github.com/H0llyW00dzZ/x509-chain-verifier/cmd/x509-chain-verifier@latest
//
// # Usage
//
//	x509-chain-verifier build  -c CERT [-p POOL]... [FLAGS]
//	x509-chain-verifier verify -c CERT [-p POOL]... [--crl CRL]... [FLAGS]
//
// # Flags
//
//	-c, --cert              Certificate to build the chain for (PEM, DER or PKCS#7)
//	-p, --pool              Candidate certificates file, repeatable
//	    --host, --port      Collect the certificate and candidates from a TLS endpoint
//	-o, --output            Destination file for build (default: stdout)
//	-f, --format            build: pem, der, tree, table or json; verify: text, tree, table or json
//	-i, --intermediate-only Emit only intermediate certificates
//	    --crl               CRL file (PEM or DER), repeatable; enables revocation checking
//	    --partial-chain     Accept any chain member as trust anchor
//	    --at                Verification time in RFC 3339
//	    --config            Configuration file (JSON or YAML)
//	-v, --verbose           Trace chain building and verification
//
// # Exit Status
//
// 0 when the command succeeds, 2 when verify rejects the chain, 1 on any
// other error and 130 when interrupted.
//
// # Examples
//
// Build a PEM bundle from a leaf and a pool:
//
//	x509-chain-verifier build -c cert.pem -p intermediates.pem -p root.pem -o chain.pem
//
// Visualize the chain as ASCII tree:
//
//	x509-chain-verifier build -c cert.pem -p bundle.pem -f tree
//
// Verify with revocation lists for every level:
//
//	x509-chain-verifier verify -c cert.pem -p bundle.pem --crl intermediate.crl --crl root.crl
package main
