package checkpoint

import (
	"time"

	"go.uber.org/zap"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// Builder assembles a Checkpoint field by field and either signs it or
// reports the first missing required field. The zero Builder is ready to
// use; use NewBuilderWithLogger to attach a logger for build/sign failure
// events.
type Builder struct {
	log *zap.Logger

	robotID   *RobotId
	missionID *MissionId

	sequence         *uint64
	monotonicCounter *uint64

	localTimestampUtc int64 // unix microseconds, UTC; optional, zero means "use build time"
	localTimestampSet bool

	modelProvenance    *ModelProvenance
	firmwareHash       *xcrypto.Hash256
	enclaveMeasurement []byte

	prevRoot    *xcrypto.Hash256
	entriesRoot *xcrypto.Hash256

	inferenceConfig *DeterminismConfig

	trustMode TrustMode // optional; defaults to TrustModeTrusted
}

func NewBuilder() *Builder { return &Builder{trustMode: TrustModeTrusted, log: zap.NewNop()} }

// NewBuilderWithLogger returns a ready-to-use Builder that logs build and
// sign failures to log.
func NewBuilderWithLogger(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{trustMode: TrustModeTrusted, log: log}
}

// fields returns the zap fields identifying this checkpoint-in-progress for
// correlation with fleet telemetry. Fields for unset values are omitted.
func (b *Builder) fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if b.robotID != nil {
		fields = append(fields, zap.String("robot_id", string(*b.robotID)))
	}
	if b.missionID != nil {
		fields = append(fields, zap.String("mission_id", string(*b.missionID)))
	}
	if b.sequence != nil {
		fields = append(fields, zap.Uint64("sequence", *b.sequence))
	}
	return fields
}

func (b *Builder) logger() *zap.Logger {
	if b.log == nil {
		return zap.NewNop()
	}
	return b.log
}

func (b *Builder) RobotID(v RobotId) *Builder     { b.robotID = &v; return b }
func (b *Builder) MissionID(v MissionId) *Builder { b.missionID = &v; return b }
func (b *Builder) Sequence(v uint64) *Builder     { b.sequence = &v; return b }
func (b *Builder) MonotonicCounter(v uint64) *Builder {
	b.monotonicCounter = &v
	return b
}
func (b *Builder) LocalTimestampUtc(v time.Time) *Builder {
	b.localTimestampUtc = v.UTC().UnixMicro()
	b.localTimestampSet = true
	return b
}
func (b *Builder) ModelProvenance(v ModelProvenance) *Builder {
	b.modelProvenance = &v
	return b
}
func (b *Builder) FirmwareHash(v xcrypto.Hash256) *Builder { b.firmwareHash = &v; return b }
func (b *Builder) EnclaveMeasurement(v []byte) *Builder {
	b.enclaveMeasurement = v
	return b
}
func (b *Builder) PrevRoot(v xcrypto.Hash256) *Builder    { b.prevRoot = &v; return b }
func (b *Builder) EntriesRoot(v xcrypto.Hash256) *Builder { b.entriesRoot = &v; return b }
func (b *Builder) InferenceConfig(v DeterminismConfig) *Builder {
	b.inferenceConfig = &v
	return b
}
func (b *Builder) TrustMode(v TrustMode) *Builder { b.trustMode = v; return b }

// build validates required fields and applies defaults, returning the
// unsigned Checkpoint (Signature left zero-valued).
func (b *Builder) build() (Checkpoint, error) {
	var missing string
	switch {
	case b.robotID == nil:
		missing = "robot_id"
	case b.missionID == nil:
		missing = "mission_id"
	case b.sequence == nil:
		missing = "sequence"
	case b.monotonicCounter == nil:
		missing = "monotonic_counter"
	case b.modelProvenance == nil:
		missing = "model_provenance"
	case b.firmwareHash == nil:
		missing = "firmware_hash"
	case b.enclaveMeasurement == nil:
		missing = "enclave_measurement"
	case b.prevRoot == nil:
		missing = "prev_root"
	case b.entriesRoot == nil:
		missing = "entries_root"
	case b.inferenceConfig == nil:
		missing = "inference_config"
	}
	if missing != "" {
		fields := append(b.fields(), zap.String("missing_field", missing))
		b.logger().Error("checkpoint build failed", fields...)
		return Checkpoint{}, &MissingFieldError{Field: missing}
	}

	ts := b.localTimestampUtc
	if !b.localTimestampSet {
		ts = time.Now().UTC().UnixMicro()
	}

	trustMode := b.trustMode
	if trustMode == "" {
		trustMode = TrustModeTrusted
	}

	return Checkpoint{
		Version:            CurrentVersion,
		RobotId:            *b.robotID,
		MissionId:          *b.missionID,
		Sequence:           *b.sequence,
		MonotonicCounter:   *b.monotonicCounter,
		LocalTimestampUtc:  ts,
		ModelProvenance:    *b.modelProvenance,
		FirmwareHash:       *b.firmwareHash,
		EnclaveMeasurement: b.enclaveMeasurement,
		PrevRoot:           *b.prevRoot,
		EntriesRoot:        *b.entriesRoot,
		InferenceConfig:    *b.inferenceConfig,
		TrustMode:          trustMode,
	}, nil
}

// BuildAndSign computes msg = encode(unsigned(cp)), signs msg with signer,
// and returns the completed, signed Checkpoint.
func (b *Builder) BuildAndSign(signer xcrypto.Signer) (Checkpoint, error) {
	cp, err := b.build()
	if err != nil {
		// build() already logged; nothing further to add here.
		return Checkpoint{}, err
	}

	msg, err := encodeUnsigned(cp)
	if err != nil {
		b.logger().Error("checkpoint build failed", append(b.fields(), zap.Error(err))...)
		return Checkpoint{}, &serializationError{cause: err}
	}

	sig, err := signer.Sign(msg)
	if err != nil {
		b.logger().Error("checkpoint signing failed", append(b.fields(), zap.Error(err))...)
		return Checkpoint{}, &SignatureError{cause: err}
	}
	cp.Signature = sig
	return cp, nil
}
