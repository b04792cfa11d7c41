package attestation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// Registry is a process-wide mapping from vendor name to an Adapter
// instance. Registration is exclusive-write; dispatch is shared-read, so
// many goroutines can verify quotes concurrently while a new vendor is
// registered.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	log      *zap.Logger
}

// NewRegistry returns an empty Registry. A nil logger disables logging; use
// NewRegistryWithLogger to attach one.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter), log: zap.NewNop()}
}

// NewRegistryWithLogger returns an empty Registry that logs registration
// and dispatch events to log.
func NewRegistryWithLogger(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{adapters: make(map[string]Adapter), log: log}
}

// Register adds adapter under its own VendorName(), replacing any adapter
// previously registered for that vendor.
func (r *Registry) Register(adapter Adapter) {
	vendor := adapter.VendorName()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[vendor] = adapter
	r.log.Info("attestation adapter registered", zap.String("vendor", vendor))
}

// List returns the vendor names currently registered.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.adapters))
	for vendor := range r.adapters {
		out = append(out, vendor)
	}
	return out
}

// lookup returns the adapter registered for vendor, or an
// UnsupportedVendorError.
func (r *Registry) lookup(vendor string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[vendor]
	if !ok {
		r.log.Warn("no attestation adapter registered for vendor", zap.String("vendor", vendor))
		return nil, &UnsupportedVendorError{Vendor: vendor}
	}
	r.log.Debug("dispatching to attestation adapter", zap.String("vendor", vendor))
	return adapter, nil
}

// VerifyQuote dispatches to the adapter registered for vendor. It fails
// with UnsupportedVendorError iff vendor is not registered; otherwise its
// result is exactly the adapter's own VerifyQuote result.
func (r *Registry) VerifyQuote(ctx context.Context, vendor string, quoteBytes []byte, nonce []byte) (AttestationResult, error) {
	adapter, err := r.lookup(vendor)
	if err != nil {
		return AttestationResult{}, err
	}
	return adapter.VerifyQuote(ctx, quoteBytes, nonce)
}

// CheckRevocation dispatches to the adapter registered for vendor.
func (r *Registry) CheckRevocation(ctx context.Context, vendor string, measurement xcrypto.Hash256) (RevocationVerdict, error) {
	adapter, err := r.lookup(vendor)
	if err != nil {
		return RevocationUnknown, err
	}
	return adapter.CheckRevocation(ctx, measurement)
}

// UpdateTrustAnchors refreshes trust anchors for every registered adapter,
// continuing past failures rather than stopping at the first one. Every
// failure is logged; only the first one is returned.
func (r *Registry) UpdateTrustAnchors(ctx context.Context) error {
	r.mu.RLock()
	adapters := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		adapters = append(adapters, a)
	}
	r.mu.RUnlock()

	var firstErr error
	for _, a := range adapters {
		if err := a.UpdateTrustAnchors(ctx); err != nil {
			r.log.Warn("trust anchor refresh failed", zap.String("vendor", a.VendorName()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
