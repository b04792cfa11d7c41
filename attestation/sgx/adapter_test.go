package sgx_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironclad-robotics/attestcore/attestation/sgx"
	"github.com/ironclad-robotics/attestcore/internal/fixtures"
)

func buildSignedQuote(t *testing.T, pckChainPEM []byte, debug bool) []byte {
	t.Helper()

	attKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	var pubXY [64]byte
	attKey.PublicKey.X.FillBytes(pubXY[:32])
	attKey.PublicKey.Y.FillBytes(pubXY[32:])

	opts := fixtures.QuoteOpts{
		MrEnclave:   [32]byte{0x11, 0x22},
		MrSigner:    [32]byte{0x33, 0x44},
		IsvProdID:   1,
		IsvSVN:      1,
		Debug:       debug,
		PckChainPEM: pckChainPEM,
	}

	unsigned := fixtures.BuildQuote(opts)
	signedPortion := unsigned[:48+432]
	digest := sha256.Sum256(signedPortion)

	r, s, err := ecdsa.Sign(rand.Reader, attKey, digest[:])
	require.NoError(t, err)

	var sig [64]byte
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])

	opts.QuoteSig = sig
	opts.AttestionKey = pubXY
	return fixtures.BuildQuote(opts)
}

func TestAdapterVerifyQuoteAccepts(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	pckChainPEM := pemEncode(chain.leafCert, chain.rootCert)

	raw := buildSignedQuote(t, pckChainPEM, false)

	a := sgx.NewAdapter(sgx.Config{AllowDebug: false}, zap.NewNop())
	a.SeedTrustAnchors(sgx.TrustAnchors{RootCA: chain.rootCert}, "")

	result, err := a.VerifyQuote(context.Background(), raw, nil)
	require.NoError(t, err)
	require.True(t, result.QuoteVerified)
	require.Equal(t, sgx.VendorName, result.Vendor)
	require.Len(t, result.PckChain, 2)
}

func TestAdapterVerifyQuoteRejectsDebugByDefault(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	pckChainPEM := pemEncode(chain.leafCert, chain.rootCert)

	raw := buildSignedQuote(t, pckChainPEM, true)

	a := sgx.NewAdapter(sgx.Config{AllowDebug: false}, zap.NewNop())
	a.SeedTrustAnchors(sgx.TrustAnchors{RootCA: chain.rootCert}, "")

	_, err := a.VerifyQuote(context.Background(), raw, nil)
	require.Error(t, err)
}

func TestAdapterVerifyQuoteRejectsTamperedSignature(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	pckChainPEM := pemEncode(chain.leafCert, chain.rootCert)

	raw := buildSignedQuote(t, pckChainPEM, false)
	raw[100] ^= 0xff // flip a byte inside the signed report body

	a := sgx.NewAdapter(sgx.Config{AllowDebug: false}, zap.NewNop())
	a.SeedTrustAnchors(sgx.TrustAnchors{RootCA: chain.rootCert}, "")

	_, err := a.VerifyQuote(context.Background(), raw, nil)
	require.Error(t, err)
}

func TestAdapterVendorName(t *testing.T) {
	a := sgx.NewAdapter(sgx.Config{}, nil)
	require.Equal(t, "intel-sgx", a.VendorName())
}
