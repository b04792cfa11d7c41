package fixtures

import (
	"crypto/ed25519"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// DeterministicSeed is the fixed 32-byte seed fixture keypairs are derived
// from. It has no significance beyond being stable across test runs.
var DeterministicSeed = [ed25519.SeedSize]byte{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
	0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f, 0x20,
}

// DeterministicSigner returns an xcrypto.Signer derived from
// DeterministicSeed, for tests that need repeatable signatures across runs.
func DeterministicSigner() xcrypto.Signer {
	return SignerFromSeed(DeterministicSeed)
}

// SignerFromSeed derives a signer from an arbitrary 32-byte seed, for tests
// that need several distinct but still-reproducible identities.
func SignerFromSeed(seed [ed25519.SeedSize]byte) xcrypto.Signer {
	priv := ed25519.NewKeyFromSeed(seed[:])
	signer, err := xcrypto.NewSigner(priv)
	if err != nil {
		// NewKeyFromSeed always returns a well-formed key; NewSigner can
		// only fail on a malformed one.
		panic(err)
	}
	return signer
}
