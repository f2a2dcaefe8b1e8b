// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509engine defines the validation engine used by the chain builder and
// verifier, and provides a native implementation on top of [crypto/x509].
//
// The engine is modelled after the store/context split found in classic [X.509]
// toolkits: a trust [Store] is assembled from certificates, a path-validation
// [Context] targets one certificate against that store, optional revocation lists
// and [Flags] are attached, and Verify reports the outcome as a [Status] code.
// Stores and contexts are explicit resources and must be released with Free.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509engine
