package xcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
)

// SignatureSize is the length in bytes of an Ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// SignatureBytes is a raw 64-byte Ed25519 signature.
type SignatureBytes [SignatureSize]byte

// ErrKeyGeneration is returned when the system entropy source fails during
// key generation; it should never happen on a correctly provisioned host.
var ErrKeyGeneration = errors.New("xcrypto: key generation failed")

// Signer signs byte sequences with Ed25519. It is a narrow interface so a
// future HSM- or enclave-backed signer can satisfy it without any change to
// callers in the checkpoint package.
type Signer interface {
	// Sign returns the Ed25519 signature over msg.
	Sign(msg []byte) (SignatureBytes, error)
	// VerifyingKey returns the public key that verifies this signer's
	// signatures.
	VerifyingKey() ed25519.PublicKey
}

// softSigner is a Signer backed by an in-memory Ed25519 private key. It is
// named "soft" to mirror the spec's TrustMode distinction: a soft signer is
// appropriate for TrustMode Untrusted or SoftAttestation, never for a
// checkpoint claiming TrustMode Trusted, where the signer ought to be
// enclave- or secure-element-backed.
type softSigner struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewSigner wraps an existing Ed25519 private key as a Signer.
func NewSigner(priv ed25519.PrivateKey) (Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("xcrypto: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("xcrypto: could not derive public key from private key")
	}
	return &softSigner{priv: priv, pub: pub}, nil
}

// GenerateSigner creates a fresh Ed25519 keypair and returns a Signer over
// it, using the system CSPRNG.
func GenerateSigner() (Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return &softSigner{priv: priv, pub: pub}, nil
}

func (s *softSigner) Sign(msg []byte) (SignatureBytes, error) {
	sig := ed25519.Sign(s.priv, msg)
	var out SignatureBytes
	copy(out[:], sig)
	return out, nil
}

func (s *softSigner) VerifyingKey() ed25519.PublicKey { return s.pub }

// Verify reports whether sig is a valid Ed25519 signature over msg under
// pub.
func Verify(pub ed25519.PublicKey, msg []byte, sig SignatureBytes) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, msg, sig[:])
}
