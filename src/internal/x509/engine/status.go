// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509engine

import "fmt"

// Status is a verification or issuance check result code.
//
// The numeric values follow the widely used X509_V_* codes so results can be
// compared with reports produced by other toolkits.
type Status int

const (
	StatusOK                           Status = 0
	StatusUnspecified                  Status = 1
	StatusUnableToGetIssuerCert        Status = 2
	StatusUnableToGetCRL               Status = 3
	StatusCertSignatureFailure         Status = 7
	StatusCRLSignatureFailure          Status = 8
	StatusCertNotYetValid              Status = 9
	StatusCertHasExpired               Status = 10
	StatusCRLNotYetValid               Status = 11
	StatusCRLHasExpired                Status = 12
	StatusUnableToGetIssuerCertLocally Status = 20
	StatusCertRevoked                  Status = 23
	StatusInvalidCA                    Status = 24
	StatusPathLengthExceeded           Status = 25
	StatusInvalidPurpose               Status = 26
	StatusSubjectIssuerMismatch        Status = 29
	StatusAKIDSKIDMismatch             Status = 30
	StatusKeyUsageNoCertSign           Status = 32
	StatusUnableToGetCRLIssuer         Status = 33
	StatusPermittedViolation           Status = 47
)

var statusText = map[Status]string{
	StatusOK:                           "ok",
	StatusUnspecified:                  "unspecified certificate verification error",
	StatusUnableToGetIssuerCert:        "unable to get issuer certificate",
	StatusUnableToGetCRL:               "unable to get certificate CRL",
	StatusCertSignatureFailure:         "certificate signature failure",
	StatusCRLSignatureFailure:          "CRL signature failure",
	StatusCertNotYetValid:              "certificate is not yet valid",
	StatusCertHasExpired:               "certificate has expired",
	StatusCRLNotYetValid:               "CRL is not yet valid",
	StatusCRLHasExpired:                "CRL has expired",
	StatusUnableToGetIssuerCertLocally: "unable to get local issuer certificate",
	StatusCertRevoked:                  "certificate revoked",
	StatusInvalidCA:                    "invalid CA certificate",
	StatusPathLengthExceeded:           "path length constraint exceeded",
	StatusInvalidPurpose:               "unsupported certificate purpose",
	StatusSubjectIssuerMismatch:        "subject issuer mismatch",
	StatusAKIDSKIDMismatch:             "authority and subject key identifier mismatch",
	StatusKeyUsageNoCertSign:           "key usage does not include certificate signing",
	StatusUnableToGetCRLIssuer:         "unable to get CRL issuer certificate",
	StatusPermittedViolation:           "permitted subtree violation",
}

// String returns a human-readable description of the status.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("verification status %d", int(s))
}

// OK reports whether the status is [StatusOK].
func (s Status) OK() bool { return s == StatusOK }

// Flags tune a verification [Context].
type Flags uint32

const (
	// FlagCRLCheck enables revocation checking for the target certificate.
	FlagCRLCheck Flags = 1 << iota
	// FlagCRLCheckAll extends revocation checking to every certificate in the path.
	// It only has an effect together with FlagCRLCheck.
	FlagCRLCheckAll
	// FlagCheckSelfSignedSignature verifies the signature of a self-signed anchor
	// against its own public key.
	FlagCheckSelfSignedSignature
	// FlagPartialChain accepts any store member as a trust anchor, not only
	// self-signed ones.
	FlagPartialChain
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }
