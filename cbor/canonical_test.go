package cbor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	attestcbor "github.com/ironclad-robotics/attestcore/cbor"
)

func TestValidateRejectsNonMinimalInt(t *testing.T) {
	// major type 0 (uint), ai=24 (1-byte form) encoding the value 5, which
	// fits in the short form (0-23) and is therefore non-minimal.
	b := []byte{0x18, 0x05}

	err := attestcbor.Validate(b)
	require.Error(t, err)

	var violation *attestcbor.CanonicalityViolation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, attestcbor.NonMinimalInt, violation.Kind)
}

func TestValidateRejectsIndefiniteLength(t *testing.T) {
	// major type 2 (byte string) with ai=31 (indefinite length).
	b := []byte{0x5f, 0xff}

	err := attestcbor.Validate(b)
	require.Error(t, err)

	var violation *attestcbor.CanonicalityViolation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, attestcbor.IndefiniteLength, violation.Kind)
}

func TestValidateRejectsUnsortedMapKeys(t *testing.T) {
	// map{2: 0, 1: 0} — two single-byte uint keys in decreasing order.
	b := []byte{0xa2, 0x02, 0x00, 0x01, 0x00}

	err := attestcbor.Validate(b)
	require.Error(t, err)

	var violation *attestcbor.CanonicalityViolation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, attestcbor.UnsortedMapKey, violation.Kind)
}

func TestValidateRejectsFloat(t *testing.T) {
	// major type 7, ai=27: a double-precision float.
	b := make([]byte, 9)
	b[0] = 0xfb

	err := attestcbor.Validate(b)
	require.Error(t, err)

	var violation *attestcbor.CanonicalityViolation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, attestcbor.DisallowedMajorType, violation.Kind)
}

func TestValidateRejectsSomeSingleByteMutationOfGoodEncoding(t *testing.T) {
	type pair struct {
		A uint64 `cbor:"1,keyasint"`
		B uint64 `cbor:"2,keyasint"`
	}
	good, err := attestcbor.Marshal(pair{A: 1, B: 2})
	require.NoError(t, err)
	require.NoError(t, attestcbor.Validate(good))

	// Flip every byte in turn; at least one mutation must break validation
	// (most will also break CBOR structure entirely, which is an equally
	// acceptable rejection).
	brokenSomewhere := false
	for i := range good {
		mutated := append([]byte(nil), good...)
		mutated[i] ^= 0xff
		if attestcbor.Validate(mutated) != nil {
			brokenSomewhere = true
		}
	}
	require.True(t, brokenSomewhere)
}
