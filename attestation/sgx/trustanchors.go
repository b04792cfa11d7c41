package sgx

import (
	"crypto/x509"
	"sync"
	"time"
)

// TrustAnchors is an immutable snapshot of the collateral a PCK chain is
// validated against: the Intel root CA, any cached intermediate CAs, and the
// CRLs fetched alongside them. A fresh snapshot replaces the old one
// atomically; callers never see a torn mix of old root and new CRL.
type TrustAnchors struct {
	RootCA        *x509.Certificate
	Intermediates []*x509.Certificate
	Crls          []*x509.RevocationList
	FetchedAt     time.Time
}

// TrustStore holds the current TrustAnchors snapshot behind a mutex, so a
// background refresh can swap it in without blocking concurrent quote
// verifications against the old snapshot.
type TrustStore struct {
	mu      sync.RWMutex
	current TrustAnchors
}

// NewTrustStore returns a TrustStore seeded with the given snapshot.
func NewTrustStore(initial TrustAnchors) *TrustStore {
	return &TrustStore{current: initial}
}

// Current returns the active TrustAnchors snapshot.
func (s *TrustStore) Current() TrustAnchors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new TrustAnchors snapshot, discarding the old one.
func (s *TrustStore) Replace(next TrustAnchors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}
