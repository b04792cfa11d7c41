package sgx_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/attestation/sgx"
)

// testCertChain holds a two-level chain (leaf signed by root) generated for
// a single test, along with the private keys used to sign it.
type testCertChain struct {
	rootKey  *ecdsa.PrivateKey
	rootCert *x509.Certificate

	leafKey  *ecdsa.PrivateKey
	leafCert *x509.Certificate
}

func generateTestChain(t *testing.T, notBefore, notAfter time.Time) testCertChain {
	t.Helper()

	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	rootTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test SGX Root CA"},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	rootDER, err := x509.CreateCertificate(rand.Reader, rootTemplate, rootTemplate, &rootKey.PublicKey, rootKey)
	require.NoError(t, err)
	rootCert, err := x509.ParseCertificate(rootDER)
	require.NoError(t, err)

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	leafTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "Test PCK Leaf"},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtraExtensions: []pkix.Extension{
			{
				Id:    []int{1, 2, 840, 113741, 1, 13, 1},
				Value: append([]byte{0x2a, 0x86, 0x48, 0x86, 0xf8, 0x4d, 0x01, 0x0d, 0x01, 0x04, 0x04, 0x06}, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}...),
			},
		},
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTemplate, rootCert, &leafKey.PublicKey, rootKey)
	require.NoError(t, err)
	leafCert, err := x509.ParseCertificate(leafDER)
	require.NoError(t, err)

	return testCertChain{rootKey: rootKey, rootCert: rootCert, leafKey: leafKey, leafCert: leafCert}
}

func pemEncode(certs ...*x509.Certificate) []byte {
	var buf bytes.Buffer
	for _, c := range certs {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})
	}
	return buf.Bytes()
}

func TestParsePckChainRoundTrip(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	pemChain := pemEncode(chain.leafCert, chain.rootCert)

	certs, err := sgx.ParsePckChain(pemChain)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	require.Equal(t, chain.leafCert.Raw, certs[0].Raw)
	require.Equal(t, chain.rootCert.Raw, certs[1].Raw)
}

func TestParsePckChainRejectsEmptyInput(t *testing.T) {
	_, err := sgx.ParsePckChain([]byte("not a pem chain"))
	require.ErrorIs(t, err, sgx.ErrInvalidChain)
}

func TestVerifyPckChainAcceptsValidChain(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	anchors := sgx.TrustAnchors{RootCA: chain.rootCert}
	err := sgx.VerifyPckChain([]*x509.Certificate{chain.leafCert, chain.rootCert}, anchors, time.Now())
	require.NoError(t, err)
}

func TestVerifyPckChainRejectsExpiredCertificate(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

	anchors := sgx.TrustAnchors{RootCA: chain.rootCert}
	err := sgx.VerifyPckChain([]*x509.Certificate{chain.leafCert, chain.rootCert}, anchors, time.Now())
	require.ErrorIs(t, err, sgx.ErrExpired)
}

func TestVerifyPckChainRejectsUnknownRoot(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	other := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	anchors := sgx.TrustAnchors{RootCA: other.rootCert}
	err := sgx.VerifyPckChain([]*x509.Certificate{chain.leafCert, chain.rootCert}, anchors, time.Now())
	require.ErrorIs(t, err, sgx.ErrInvalidChain)
}

func TestVerifyPckChainRejectsRevokedSerial(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	crlTemplate := &x509.RevocationList{
		Number:                    big.NewInt(1),
		ThisUpdate:                time.Now().Add(-time.Minute),
		NextUpdate:                time.Now().Add(time.Hour),
		RevokedCertificateEntries: []x509.RevocationListEntry{{SerialNumber: chain.leafCert.SerialNumber, RevocationTime: time.Now()}},
	}
	crlDER, err := x509.CreateRevocationList(rand.Reader, crlTemplate, chain.rootCert, chain.rootKey)
	require.NoError(t, err)
	crl, err := x509.ParseRevocationList(crlDER)
	require.NoError(t, err)

	anchors := sgx.TrustAnchors{RootCA: chain.rootCert, Crls: []*x509.RevocationList{crl}}
	err = sgx.VerifyPckChain([]*x509.Certificate{chain.leafCert, chain.rootCert}, anchors, time.Now())
	require.ErrorIs(t, err, sgx.ErrRevoked)
}

func TestExtractFmspc(t *testing.T) {
	chain := generateTestChain(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	fmspc, err := sgx.ExtractFmspc(chain.leafCert)
	require.NoError(t, err)
	require.Equal(t, sgx.Fmspc{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, fmspc)
}
