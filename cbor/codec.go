package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// DeterministicEncOptions returns the encoding options that define the
// canonical profile: map keys sorted by their encoded byte representation,
// minimal-length integers (inherent to the encoder), and no indefinite-length
// constructs (the non-streaming encoder never emits them).
func DeterministicEncOptions() cbor.EncOptions {
	return cbor.EncOptions{
		Sort:          cbor.SortBytewiseLexical, // RFC 8949 Core Deterministic key order
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvertReject,
		InfConvert:    cbor.InfConvertReject,
		BigIntConvert: cbor.BigIntConvertShortest,
	}
}

// DeterministicDecOptions returns decode options compatible with the
// canonical profile. Unsigned integers are decoded without losing their
// sign-domain so that e.g. sequence numbers round-trip as the same Go type
// they were encoded from.
func DeterministicDecOptions() cbor.DecOptions {
	return cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		IntDec:      cbor.IntDecConvertNone,
		TagsMd:      cbor.TagsForbidden,
	}
}

// Codec marshals and unmarshals Go values under the canonical encoding
// profile. It is safe for concurrent use once constructed.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// NewCodec builds a Codec from the canonical options. Returns an error only
// if the options themselves are inconsistent (a programming error, not a
// runtime condition), mirroring NewCBORCodec's contract in the teacher.
func NewCodec() (Codec, error) {
	encMode, err := DeterministicEncOptions().EncMode()
	if err != nil {
		return Codec{}, fmt.Errorf("cbor: building encode mode: %w", err)
	}
	decMode, err := DeterministicDecOptions().DecMode()
	if err != nil {
		return Codec{}, fmt.Errorf("cbor: building decode mode: %w", err)
	}
	return Codec{encMode: encMode, decMode: decMode}, nil
}

// Marshal encodes v under the canonical profile.
func (c Codec) Marshal(v any) ([]byte, error) {
	b, err := c.encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIo, err)
	}
	return b, nil
}

// Unmarshal decodes b into v. It does not itself validate canonicality of b —
// use Validate for that — it only rejects bytes that are not valid CBOR, or
// that use constructs forbidden by the decode options (indefinite length,
// duplicate map keys, tags).
func (c Codec) Unmarshal(b []byte, v any) error {
	if err := c.decMode.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// defaultCodec is used by the package-level Marshal/Unmarshal/Validate
// helpers; it never fails to construct because DeterministicEncOptions and
// DeterministicDecOptions are fixed, valid literals.
var defaultCodec = func() Codec {
	c, err := NewCodec()
	if err != nil {
		panic(fmt.Sprintf("cbor: default codec options are invalid: %v", err))
	}
	return c
}()

// Marshal encodes v under the canonical profile using the package default
// codec.
func Marshal(v any) ([]byte, error) { return defaultCodec.Marshal(v) }

// Unmarshal decodes b into v using the package default codec.
func Unmarshal(b []byte, v any) error { return defaultCodec.Unmarshal(b, v) }
