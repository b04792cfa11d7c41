package attestation

import (
	"context"
	"time"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// RevocationVerdict is the tri-state outcome of a revocation check: a
// verifier that cannot prove a measurement is clean must say Unknown,
// never Ok, so callers make the trust-policy decision rather than the
// adapter.
type RevocationVerdict int

const (
	RevocationOk RevocationVerdict = iota
	RevocationRevoked
	RevocationUnknown
)

func (v RevocationVerdict) String() string {
	switch v {
	case RevocationOk:
		return "ok"
	case RevocationRevoked:
		return "revoked"
	case RevocationUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// AttestationResult is what a successful (or rejected) verify_quote call
// returns.
type AttestationResult struct {
	Vendor             string
	EnclaveMeasurement []byte
	QuoteVerified      bool
	VerifiedAt         time.Time
	RevokeCheck        RevocationVerdict
	RawQuote           []byte
	PckChain           [][]byte // DER-encoded certificates, leaf first
}

// Adapter unifies TEE quote verification across vendors. Implementations
// must be safe for concurrent use: verify_quote may be called from many
// goroutines while update_trust_anchors runs concurrently on another.
type Adapter interface {
	// VendorName returns the adapter's stable registry key, e.g.
	// "intel-sgx".
	VendorName() string

	// VerifyQuote validates quoteBytes and returns the resulting
	// AttestationResult. nonce, if non-nil, must appear in the quote's
	// user-data field (freshness binding); implementations that don't
	// support a nonce MAY ignore it only when nil.
	VerifyQuote(ctx context.Context, quoteBytes []byte, nonce []byte) (AttestationResult, error)

	// CheckRevocation consults whatever revocation sources the adapter
	// maintains for measurement.
	CheckRevocation(ctx context.Context, measurement xcrypto.Hash256) (RevocationVerdict, error)

	// RootCACerts returns the PEM-encoded root CA certificates this adapter
	// trusts.
	RootCACerts() [][]byte

	// UpdateTrustAnchors refreshes cached CRLs and root material. It is a
	// no-op when the cache has not yet expired, and atomic: a failed
	// refresh leaves the previous anchors in place.
	UpdateTrustAnchors(ctx context.Context) error
}
