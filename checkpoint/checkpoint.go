package checkpoint

import (
	"crypto/ed25519"

	"go.uber.org/zap"

	"github.com/ironclad-robotics/attestcore/cbor"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// CurrentVersion is the only checkpoint wire version this package emits.
const CurrentVersion uint8 = 1

// Checkpoint is the signed, chainable record. Zero value is not meaningful;
// construct one with Builder.
type Checkpoint struct {
	Version            uint8                  `cbor:"1,keyasint"`
	RobotId            RobotId                `cbor:"2,keyasint"`
	MissionId          MissionId              `cbor:"3,keyasint"`
	Sequence           uint64                 `cbor:"4,keyasint"`
	MonotonicCounter   uint64                 `cbor:"5,keyasint"`
	LocalTimestampUtc  int64                  `cbor:"6,keyasint"`
	ModelProvenance    ModelProvenance        `cbor:"7,keyasint"`
	FirmwareHash       xcrypto.Hash256        `cbor:"8,keyasint"`
	EnclaveMeasurement []byte                 `cbor:"9,keyasint"`
	PrevRoot           xcrypto.Hash256        `cbor:"10,keyasint"`
	EntriesRoot        xcrypto.Hash256        `cbor:"11,keyasint"`
	InferenceConfig    DeterminismConfig      `cbor:"12,keyasint"`
	TrustMode          TrustMode              `cbor:"13,keyasint"`
	Signature          xcrypto.SignatureBytes `cbor:"14,keyasint"`
}

// unsigned is the wire shape of a Checkpoint with the signature field
// omitted entirely (not zero-valued — absent). It is what gets encoded to
// produce both the signing input and the chaining hash.
type unsigned struct {
	Version            uint8             `cbor:"1,keyasint"`
	RobotId            RobotId           `cbor:"2,keyasint"`
	MissionId          MissionId         `cbor:"3,keyasint"`
	Sequence           uint64            `cbor:"4,keyasint"`
	MonotonicCounter   uint64            `cbor:"5,keyasint"`
	LocalTimestampUtc  int64             `cbor:"6,keyasint"`
	ModelProvenance    ModelProvenance   `cbor:"7,keyasint"`
	FirmwareHash       xcrypto.Hash256   `cbor:"8,keyasint"`
	EnclaveMeasurement []byte            `cbor:"9,keyasint"`
	PrevRoot           xcrypto.Hash256   `cbor:"10,keyasint"`
	EntriesRoot        xcrypto.Hash256   `cbor:"11,keyasint"`
	InferenceConfig    DeterminismConfig `cbor:"12,keyasint"`
	TrustMode          TrustMode         `cbor:"13,keyasint"`
}

func (cp Checkpoint) unsignedView() unsigned {
	return unsigned{
		Version:            cp.Version,
		RobotId:            cp.RobotId,
		MissionId:          cp.MissionId,
		Sequence:           cp.Sequence,
		MonotonicCounter:   cp.MonotonicCounter,
		LocalTimestampUtc:  cp.LocalTimestampUtc,
		ModelProvenance:    cp.ModelProvenance,
		FirmwareHash:       cp.FirmwareHash,
		EnclaveMeasurement: cp.EnclaveMeasurement,
		PrevRoot:           cp.PrevRoot,
		EntriesRoot:        cp.EntriesRoot,
		InferenceConfig:    cp.InferenceConfig,
		TrustMode:          cp.TrustMode,
	}
}

// encodeUnsigned returns the canonical encoding of cp with its signature
// field omitted, re-checked with cbor.Validate before it is returned. This is
// both the Ed25519 signing input and the input to ComputeHash.
func encodeUnsigned(cp Checkpoint) ([]byte, error) {
	b, err := cbor.Marshal(cp.unsignedView())
	if err != nil {
		return nil, err
	}
	if err := cbor.Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ComputeHash returns sha256(encode(unsigned(cp))) — the value the next
// checkpoint in the chain MUST carry as its PrevRoot.
func ComputeHash(cp Checkpoint) (xcrypto.Hash256, error) {
	b, err := encodeUnsigned(cp)
	if err != nil {
		return xcrypto.Hash256{}, err
	}
	return xcrypto.SHA256(b), nil
}

// VerifySignature recomputes cp's unsigned encoding and checks cp.Signature
// against it under pub. Failures are not logged; use VerifySignatureWithLogger
// to correlate a rejected checkpoint with fleet telemetry.
func (cp Checkpoint) VerifySignature(pub ed25519.PublicKey) error {
	return cp.VerifySignatureWithLogger(pub, nil)
}

// VerifySignatureWithLogger is VerifySignature, logging an Error event with
// robot_id, mission_id, and sequence on either failure path.
func (cp Checkpoint) VerifySignatureWithLogger(pub ed25519.PublicKey, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	fields := []zap.Field{
		zap.String("robot_id", string(cp.RobotId)),
		zap.String("mission_id", string(cp.MissionId)),
		zap.Uint64("sequence", cp.Sequence),
	}

	msg, err := encodeUnsigned(cp)
	if err != nil {
		log.Error("checkpoint signature verification failed", append(fields, zap.Error(err))...)
		return &serializationError{cause: err}
	}
	if !xcrypto.Verify(pub, msg, cp.Signature) {
		log.Error("checkpoint signature verification failed", append(fields, zap.Error(ErrInvalidSignature))...)
		return ErrInvalidSignature
	}
	return nil
}

type serializationError struct {
	cause error
}

func (e *serializationError) Error() string {
	return ErrSerializationFailed.Error() + ": " + e.cause.Error()
}

func (e *serializationError) Unwrap() error { return ErrSerializationFailed }
