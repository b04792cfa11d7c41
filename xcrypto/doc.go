// Package xcrypto provides the two hash functions and the signer the rest of
// attestcore builds on.
//
// Hash256 is SHA-256 and is the only hash that may ever contribute to a
// Merkle leaf, a Merkle root, or a checkpoint's prev_root chain — anything
// "consensus-critical" in the sense that two honest verifiers must agree on
// it bit for bit without any shared non-public state. FastHash256 is BLAKE3
// and exists purely for local, non-consensus uses (cache keys, in-memory
// indices, the revocation prefilter): it is faster, but nothing outside the
// process that computed it is expected to reproduce it from a specification.
// The two are distinct Go types specifically so a FastHash256 cannot be
// passed where a Hash256 is expected without an explicit conversion.
package xcrypto
