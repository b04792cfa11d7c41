package checkpoint

import (
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// RobotId identifies a robot. It is an opaque UTF-8 string; equality is by
// byte content, never by any normalized or case-folded form.
type RobotId string

// MissionId identifies one mission run by a robot. Same equality rule as
// RobotId.
type MissionId string

// TrustMode tags how strongly a checkpoint's signer is backed.
type TrustMode string

const (
	// TrustModeTrusted means the checkpoint carries a full TEE quote.
	TrustModeTrusted TrustMode = "trusted"
	// TrustModeSoftAttestation means the signer is backed by a secure
	// element plus signed boot, but no TEE quote is attached.
	TrustModeSoftAttestation TrustMode = "soft_attestation"
	// TrustModeUntrusted means the signer is a plain software key; suitable
	// only for development.
	TrustModeUntrusted TrustMode = "untrusted"
)

// ModelProvenance identifies the model/code running at checkpoint time.
// DatasetHash, ContainerDigest, and SignatureBundle are optional: when a
// pointer/slice is nil, the field is omitted entirely from the canonical
// encoding rather than encoded as a zero value. That omission changes the
// signed bytes, so getting it right matters.
type ModelProvenance struct {
	Name            string           `cbor:"1,keyasint"`
	ModelHash       xcrypto.Hash256  `cbor:"2,keyasint"`
	DatasetHash     *xcrypto.Hash256 `cbor:"3,keyasint,omitempty"`
	ContainerDigest *string          `cbor:"4,keyasint,omitempty"`
	SignatureBundle []byte           `cbor:"5,keyasint,omitempty"`
}

// DeterminismConfig records the inference-time configuration relevant to
// reproducing a mission's outputs. RngSeed and Flags are optional under the
// same omit-when-absent rule as ModelProvenance's optional fields.
type DeterminismConfig struct {
	RngSeed   *uint64  `cbor:"1,keyasint,omitempty"`
	BatchSize uint32   `cbor:"2,keyasint"`
	Flags     []string `cbor:"3,keyasint,omitempty"`
}
