package checkpoint

import (
	"crypto/ed25519"
	"fmt"

	"go.uber.org/multierr"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// VerifyChain checks a sequence of checkpoints, cps[0] being the oldest,
// against pub: each checkpoint's signature must verify, and each
// checkpoint after the first must carry prev_root equal to the hash of its
// predecessor's unsigned encoding, sequence exactly one greater, and a
// strictly greater monotonic_counter.
//
// Every violation found is reported; VerifyChain does not stop at the first
// one, so a caller auditing an entire chain sees every broken link in one
// pass.
func VerifyChain(cps []Checkpoint, pub ed25519.PublicKey) error {
	var errs error

	for i, cp := range cps {
		if err := cp.VerifySignature(pub); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("checkpoint[%d] (sequence %d): %w", i, cp.Sequence, err))
		}
		if i == 0 {
			continue
		}

		prev := cps[i-1]

		prevHash, err := ComputeHash(prev)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("checkpoint[%d]: computing predecessor hash: %w", i, err))
			continue
		}

		if cp.PrevRoot != prevHash {
			errs = multierr.Append(errs, &ChainViolation{
				AtSequence: cp.Sequence,
				Detail:     "prev_root does not equal hash of predecessor's unsigned encoding",
			})
		}
		if cp.Sequence != prev.Sequence+1 {
			errs = multierr.Append(errs, &ChainViolation{
				AtSequence: cp.Sequence,
				Detail:     fmt.Sprintf("sequence is not predecessor+1 (got %d, predecessor %d)", cp.Sequence, prev.Sequence),
			})
		}
		if cp.MonotonicCounter <= prev.MonotonicCounter {
			errs = multierr.Append(errs, &ChainViolation{
				AtSequence: cp.Sequence,
				Detail:     fmt.Sprintf("monotonic_counter did not strictly increase (got %d, predecessor %d)", cp.MonotonicCounter, prev.MonotonicCounter),
			})
		}
	}

	return errs
}

// GenesisPrevRoot is the prev_root value required of the first checkpoint in
// a mission: 32 zero bytes.
func GenesisPrevRoot() xcrypto.Hash256 { return xcrypto.Hash256{} }
