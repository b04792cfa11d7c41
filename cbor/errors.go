package cbor

import (
	"errors"
	"fmt"
)

var (
	// ErrIo is returned when the underlying writer/reader fails.
	ErrIo = errors.New("cbor: io error")

	// ErrMalformed is returned when decoding encounters bytes that are not
	// valid CBOR at all (as opposed to valid-but-non-canonical CBOR).
	ErrMalformed = errors.New("cbor: malformed encoding")
)

// CanonicalityViolation describes a specific way a byte sequence fails the
// canonical-form check. The Kind distinguishes the three failure modes named
// in the encoding contract, plus the floating-point ban (DisallowedMajorType);
// Offset is the byte offset, within the validated input, of the item that
// violates it.
type CanonicalityViolation struct {
	Kind   ViolationKind
	Offset int
	Detail string
}

func (e *CanonicalityViolation) Error() string {
	return fmt.Sprintf("cbor: canonicality violation (%s) at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// ViolationKind enumerates the ways a byte sequence can fail canonical-form
// validation.
type ViolationKind int

const (
	// IndefiniteLength marks use of a streaming (indefinite-length) array,
	// map, byte string, or text string.
	IndefiniteLength ViolationKind = iota
	// NonMinimalInt marks an integer (or length) encoded wider than its
	// minimal form requires.
	NonMinimalInt
	// UnsortedMapKey marks a map whose keys are not sorted by their encoded
	// byte representation.
	UnsortedMapKey
	// DisallowedMajorType marks a major type the data model never admits
	// (currently: simple-float, major type 7 float subtypes).
	DisallowedMajorType
)

func (k ViolationKind) String() string {
	switch k {
	case IndefiniteLength:
		return "indefinite-length"
	case NonMinimalInt:
		return "non-minimal-int"
	case UnsortedMapKey:
		return "unsorted-map-key"
	case DisallowedMajorType:
		return "disallowed-major-type"
	default:
		return "unknown"
	}
}
