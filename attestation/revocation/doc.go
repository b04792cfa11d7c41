// Package revocation provides an in-memory probabilistic prefilter that
// sits in front of the authoritative CRL/OCSP revocation check (see
// attestation/sgx), so that a verification hot path does not pay a network
// round trip for every quote just to learn that nothing is revoked.
//
// The prefilter can answer "definitely not revoked" without touching the
// network; it can never answer "definitely revoked" — a positive match
// always falls through to the authoritative check. False positives only
// cost an extra lookup; false negatives would be a trust bypass, so the
// filter is sized generously and never claims to be exhaustive.
package revocation
