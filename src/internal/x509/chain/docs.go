// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain builds and verifies [X.509] certificate chains from
// caller-supplied material only. It provides capabilities to:
//   - Build the issuance path of a leaf certificate from a pool of candidates.
//   - Verify a chain using its own members as the trust store, optionally
//     against [CRL] revocation lists.
//   - Render chains as ASCII trees, markdown tables or JSON reports.
//   - Collect candidate certificates from a TLS handshake.
//
// No network lookups are made during building or verification, and no system
// trust store is consulted. The cryptographic work is delegated to an
// x509engine.Engine, which can be replaced through [WithEngine].
//
// [X.509]: https://grokipedia.com/page/X.509
// [CRL]: https://grokipedia.com/page/Certificate_revocation_list
package x509chain
