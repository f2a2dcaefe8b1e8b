// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for offline [X509] certificate chain building and verification.
//
// It serves three tools over stdio:
//   - build_chain: builds the issuance chain of a certificate from a candidate pool
//   - verify_chain: verifies a built chain with its own members as trust anchors,
//     optionally against certificate revocation lists
//   - fetch_remote_chain: builds a chain from the certificates a TLS endpoint presents
//
// Static resources expose the verification status codes, the configuration in
// effect and the server version. The server is assembled with [ServerBuilder]
// and started with [Run]. Logs are JSON records on stderr or the configured
// log file, since stdout carries the protocol.
//
// [X509]: https://grokipedia.com/page/X.509
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
