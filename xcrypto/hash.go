package xcrypto

import (
	"crypto/sha256"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Hash256Size is the length in bytes of both hash types.
const Hash256Size = 32

// Hash256 is a 32-byte SHA-256 digest. It is the only hash type that may
// appear in a Merkle leaf, a Merkle root, or a checkpoint's prev_root.
type Hash256 [Hash256Size]byte

// String renders the digest as lowercase hex, for logging and diagnostics.
func (h Hash256) String() string { return hex.EncodeToString(h[:]) }

// IsZero reports whether h is the all-zero genesis value.
func (h Hash256) IsZero() bool { return h == Hash256{} }

// FastHash256 is a 32-byte BLAKE3 digest, used only on non-consensus paths:
// local indices and the revocation prefilter. It is a distinct type from
// Hash256 so it can never be substituted for one by accident.
type FastHash256 [Hash256Size]byte

// String renders the digest as lowercase hex.
func (h FastHash256) String() string { return hex.EncodeToString(h[:]) }

// SHA256 computes the consensus-critical hash of the concatenation of parts.
func SHA256(parts ...[]byte) Hash256 {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p) //nolint:errcheck // hash.Hash.Write never errors
	}
	var out Hash256
	copy(out[:], h.Sum(nil))
	return out
}

// FastHash computes the non-consensus BLAKE3 hash of the concatenation of
// parts. Never call this where a Hash256 is required — the return type makes
// that a compile error, not just a convention.
func FastHash(parts ...[]byte) FastHash256 {
	h := blake3.New(Hash256Size, nil)
	for _, p := range parts {
		h.Write(p) //nolint:errcheck // hash.Hash.Write never errors
	}
	var out FastHash256
	copy(out[:], h.Sum(nil))
	return out
}
