// Package attestation defines the vendor-agnostic TEE quote verification
// contract (Adapter) and a process-wide Registry that dispatches by vendor
// name. Concrete adapters — e.g. attestation/sgx for Intel SGX DCAP — are
// registered at process start and looked up by the identity string embedded
// in a checkpoint's trust material.
package attestation
