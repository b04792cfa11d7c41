// Package fixtures provides deterministic test data shared across the
// module's package tests: a seeded ed25519 keypair generator (so checkpoint
// fixtures are reproducible across runs), a synthetic SGX ECDSA Quote v3
// builder matching the adapter's literal byte layout, and a fake
// attestation.Adapter for registry dispatch tests.
package fixtures
