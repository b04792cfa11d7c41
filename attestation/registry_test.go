package attestation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/attestation"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

type fakeAdapter struct {
	vendor string
}

func (f *fakeAdapter) VendorName() string { return f.vendor }

func (f *fakeAdapter) VerifyQuote(_ context.Context, quoteBytes []byte, _ []byte) (attestation.AttestationResult, error) {
	return attestation.AttestationResult{
		Vendor:        f.vendor,
		QuoteVerified: true,
		VerifiedAt:    time.Unix(0, 0).UTC(),
		RawQuote:      quoteBytes,
	}, nil
}

func (f *fakeAdapter) CheckRevocation(_ context.Context, _ xcrypto.Hash256) (attestation.RevocationVerdict, error) {
	return attestation.RevocationOk, nil
}

func (f *fakeAdapter) RootCACerts() [][]byte { return nil }

func (f *fakeAdapter) UpdateTrustAnchors(_ context.Context) error { return nil }

func TestRegistryDispatchesToRegisteredAdapter(t *testing.T) {
	reg := attestation.NewRegistry()
	reg.Register(&fakeAdapter{vendor: "intel-sgx"})

	result, err := reg.VerifyQuote(context.Background(), "intel-sgx", []byte("quote"), nil)
	require.NoError(t, err)
	require.True(t, result.QuoteVerified)
	require.Equal(t, "intel-sgx", result.Vendor)
}

func TestRegistryFailsUnsupportedVendor(t *testing.T) {
	reg := attestation.NewRegistry()
	_, err := reg.VerifyQuote(context.Background(), "aws-nitro", []byte("quote"), nil)

	var uv *attestation.UnsupportedVendorError
	require.ErrorAs(t, err, &uv)
	require.Equal(t, "aws-nitro", uv.Vendor)
}

func TestRegistryListReflectsRegistrations(t *testing.T) {
	reg := attestation.NewRegistry()
	require.Empty(t, reg.List())

	reg.Register(&fakeAdapter{vendor: "intel-sgx"})
	reg.Register(&fakeAdapter{vendor: "arm-trustzone"})

	require.ElementsMatch(t, []string{"intel-sgx", "arm-trustzone"}, reg.List())
}

func TestRegistryRegisterReplacesExistingVendor(t *testing.T) {
	reg := attestation.NewRegistry()
	reg.Register(&fakeAdapter{vendor: "intel-sgx"})
	reg.Register(&fakeAdapter{vendor: "intel-sgx"})

	require.Len(t, reg.List(), 1)
}
