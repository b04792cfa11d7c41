// Package sgx implements the Intel SGX DCAP attestation adapter: ECDSA
// Quote v3 parsing, PCK certificate chain verification against cached trust
// anchors, and CRL/OCSP-based revocation checks backed by Intel's
// Provisioning Certification Service (PCS). TCB info is fetched from PCS
// during a trust-anchor refresh, but the platform's TCB level is not
// evaluated against it.
//
// This is the reference attestation.Adapter implementation; vendor identity
// "intel-sgx" is the registry key an attestation.Registry dispatches to it
// under.
package sgx
