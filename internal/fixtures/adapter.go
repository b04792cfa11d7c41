package fixtures

import (
	"context"
	"time"

	"github.com/ironclad-robotics/attestcore/attestation"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// FakeAdapter is a scriptable attestation.Adapter for registry and
// higher-level dispatch tests that should not depend on a real vendor SDK.
type FakeAdapter struct {
	Vendor string

	VerifyQuoteFunc      func(ctx context.Context, quoteBytes, nonce []byte) (attestation.AttestationResult, error)
	CheckRevocationFunc  func(ctx context.Context, measurement xcrypto.Hash256) (attestation.RevocationVerdict, error)
	RootCACertsFunc      func() [][]byte
	UpdateTrustAnchorsFn func(ctx context.Context) error
}

func (f *FakeAdapter) VendorName() string { return f.Vendor }

func (f *FakeAdapter) VerifyQuote(ctx context.Context, quoteBytes, nonce []byte) (attestation.AttestationResult, error) {
	if f.VerifyQuoteFunc != nil {
		return f.VerifyQuoteFunc(ctx, quoteBytes, nonce)
	}
	return attestation.AttestationResult{
		Vendor:        f.Vendor,
		QuoteVerified: true,
		VerifiedAt:    time.Unix(0, 0).UTC(),
		RawQuote:      quoteBytes,
	}, nil
}

func (f *FakeAdapter) CheckRevocation(ctx context.Context, measurement xcrypto.Hash256) (attestation.RevocationVerdict, error) {
	if f.CheckRevocationFunc != nil {
		return f.CheckRevocationFunc(ctx, measurement)
	}
	return attestation.RevocationOk, nil
}

func (f *FakeAdapter) RootCACerts() [][]byte {
	if f.RootCACertsFunc != nil {
		return f.RootCACertsFunc()
	}
	return nil
}

func (f *FakeAdapter) UpdateTrustAnchors(ctx context.Context) error {
	if f.UpdateTrustAnchorsFn != nil {
		return f.UpdateTrustAnchorsFn(ctx)
	}
	return nil
}
