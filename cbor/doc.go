// Package cbor implements the canonical byte encoding used throughout
// attestcore.
//
// Every record that is hashed, signed, or chained (spec: checkpoints, Merkle
// entries, model provenance, inference config) goes through this package
// first. The encoding profile is CBOR's Core Deterministic Encoding (RFC 8949
// §4.2.1): map keys sorted by their encoded byte representation, minimal-length
// integers, no indefinite-length constructs, and no floating point. Optional
// fields are omitted from the encoding entirely when absent — `omitempty`
// struct tags are load bearing, not cosmetic, because presence vs absence of
// an optional field changes the signed/hashed bytes.
//
// Because two different bugs can both "round-trip" (decode(encode(x)) == x)
// while still producing non-canonical bytes, this package separates encoding
// from validation: Validate re-walks a byte sequence independently of the
// encoder that produced it and rejects anything that isn't canonical. Callers
// that are about to sign or hash MUST call Validate on their own output.
package cbor
