package checkpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrSerializationFailed is returned by VerifySignature when the
	// checkpoint's own unsigned view cannot be re-encoded.
	ErrSerializationFailed = errors.New("checkpoint: serialization failed")

	// ErrInvalidSignature is returned by VerifySignature when the Ed25519
	// signature does not verify against the supplied public key.
	ErrInvalidSignature = errors.New("checkpoint: invalid signature")

	// ErrMissingField is returned by Builder.BuildAndSign when a required
	// field was never set.
	ErrMissingField = errors.New("checkpoint: missing required field")

	// ErrChainBroken is returned by VerifyChain when consecutive checkpoints
	// violate the prev_root, sequence, or monotonic_counter invariants.
	ErrChainBroken = errors.New("checkpoint: chain invariant violated")

	// ErrSigningFailed is returned by Builder.BuildAndSign when the signer
	// itself fails.
	ErrSigningFailed = errors.New("checkpoint: signing failed")
)

// SignatureError wraps a signer failure encountered while signing a
// checkpoint during BuildAndSign.
type SignatureError struct {
	cause error
}

func (e *SignatureError) Error() string {
	return ErrSigningFailed.Error() + ": " + e.cause.Error()
}

func (e *SignatureError) Unwrap() error { return ErrSigningFailed }

// MissingFieldError names the specific required field a Builder was missing.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ChainViolation describes one broken link between two consecutive
// checkpoints, identified by the sequence number of the later checkpoint.
type ChainViolation struct {
	AtSequence uint64
	Detail     string
}

func (e *ChainViolation) Error() string {
	return fmt.Sprintf("%s: at sequence %d: %s", ErrChainBroken, e.AtSequence, e.Detail)
}

func (e *ChainViolation) Unwrap() error { return ErrChainBroken }
