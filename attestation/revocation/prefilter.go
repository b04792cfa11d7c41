package revocation

import (
	"errors"
	"sync"

	"github.com/ironclad-robotics/attestcore/bloom"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// defaultBitsPerElement and defaultK mirror typical Bloom sizing for a
// target false-positive rate around 1%.
const (
	defaultBitsPerElement = 10
	defaultK              = 7
)

// ErrCapacity is returned by NewPrefilter when expectedEntries is zero.
var ErrCapacity = errors.New("revocation: expectedEntries must be > 0")

// Prefilter is a fixed-capacity Bloom filter over revoked-identity digests.
// Identities (certificate serial numbers, enclave measurements) are
// arbitrary-length byte strings; they are folded to a fixed 32-byte digest
// with xcrypto.FastHash before insertion, since the underlying filter format
// requires fixed-width elements and this is exactly the non-consensus,
// local-indexing use FastHash exists for.
//
// Prefilter is safe for concurrent use.
type Prefilter struct {
	mu     sync.RWMutex
	region []byte
}

// NewPrefilter allocates a prefilter sized for expectedEntries distinct
// revoked identities.
func NewPrefilter(expectedEntries uint64) (*Prefilter, error) {
	if expectedEntries == 0 {
		return nil, ErrCapacity
	}

	mBits := bloom.MBitsSafeCast(bloom.MBitsV1(expectedEntries, defaultBitsPerElement))
	if mBits == 0 {
		return nil, errors.New("revocation: expectedEntries too large for a 32-bit bit count")
	}

	region := make([]byte, bloom.RegionBytesV1(mBits))
	if err := bloom.InitV1(region, expectedEntries, defaultBitsPerElement, defaultK); err != nil {
		return nil, err
	}
	return &Prefilter{region: region}, nil
}

// Insert records identity as revoked.
func (p *Prefilter) Insert(identity []byte) error {
	key := xcrypto.FastHash(identity)

	p.mu.Lock()
	defer p.mu.Unlock()
	return bloom.InsertV1(p.region, key[:])
}

// MaybeRevoked reports whether identity might be revoked. false means
// "definitely not revoked" and the authoritative check can be skipped;
// true means the caller MUST still consult the authoritative source, since
// this may be a false positive.
func (p *Prefilter) MaybeRevoked(identity []byte) bool {
	key := xcrypto.FastHash(identity)

	p.mu.RLock()
	defer p.mu.RUnlock()
	present, err := bloom.MaybeContainsV1(p.region, key[:])
	if err != nil {
		// A malformed region can only be a programming error (NewPrefilter
		// always produces a valid one); treat it as "can't rule anything
		// out" rather than panicking on a hot verification path.
		return true
	}
	return present
}
