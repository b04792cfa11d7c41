package bloom

/*

# Bloom primitives for the revocation prefilter

This package provides the primitive building blocks for a single in-place
Bloom filter, used by attestation/revocation to give a checkpoint verifier a
cheap "definitely not revoked" answer before it falls back to an
authoritative CRL or OCSP lookup.

- small, composable functions
- explicit byte layout, versioned by a header
- a burden of knowledge on the caller for hot paths

## What Bloom filters are (and are not)

Bloom filters provide a *probabilistic prefilter*:

- If the filter says "definitely not present", then the element is not present.
- If the filter says "maybe present", then the element may or may not be
  present (false positives are possible).

Bloom filters are NOT cryptographic commitments and do not provide proofs of
exclusion. They are only an I/O optimization: a revoked-identity hit here
still requires consulting the authoritative source before a checkpoint is
rejected.

## Region layout

A region is a 32-byte header followed by a single bitset:

	+----------------------+  32B header (magic, version, params)
	| HeaderV1             |
	+----------------------+  bitset bytes
	| bitset               |
	+----------------------+

## API versioning: why the `V1` suffix exists

Functions in this package are suffixed with a format version (for example
`InitV1`, `InsertV1`, `MaybeContainsV1`). The suffix means: this function
implements Bloom format version 1 — a specific header layout, bit numbering
convention, and hashing/index-derivation rule. Future incompatible changes
can be introduced as `V2` side-by-side without silently breaking a
previously serialized region.

*/
