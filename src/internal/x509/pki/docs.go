// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509pki provides the shared data model used by chain building and
// verification: immutable [Certificate] and [Crl] wrappers and the ordered
// [CertificateCollection] and [CrlCollection] views over them.
//
// Wrappers are shared by pointer. A certificate may sit in a candidate pool,
// a built chain and a trust store at the same time; the underlying
// [crypto/x509] value is never copied or modified.
package x509pki
