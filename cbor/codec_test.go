package cbor_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"

	attestcbor "github.com/ironclad-robotics/attestcore/cbor"
)

type sample struct {
	A uint64  `cbor:"1,keyasint"`
	B string  `cbor:"2,keyasint"`
	C []byte  `cbor:"3,keyasint,omitempty"`
	D *uint64 `cbor:"4,keyasint,omitempty"`
}

func TestMarshalDeterministic(t *testing.T) {
	v := sample{A: 7, B: "entries", C: []byte{1, 2, 3}}

	b1, err := attestcbor.Marshal(v)
	require.NoError(t, err)
	b2, err := attestcbor.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, b1, b2, "encoding the same logical value twice must yield identical bytes")

	codec2, err := attestcbor.NewCodec()
	require.NoError(t, err)
	b3, err := codec2.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, b1, b3, "two independent codec instances must agree")
}

func TestRoundTrip(t *testing.T) {
	v := sample{A: 42, B: "x", C: []byte("data")}

	b, err := attestcbor.Marshal(v)
	require.NoError(t, err)

	var got sample
	require.NoError(t, attestcbor.Unmarshal(b, &got))

	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalFieldOmittedWhenAbsent(t *testing.T) {
	withNil, err := attestcbor.Marshal(sample{A: 1, B: "y"})
	require.NoError(t, err)

	zero := uint64(0)
	withZero, err := attestcbor.Marshal(sample{A: 1, B: "y", D: &zero})
	require.NoError(t, err)

	require.NotEqual(t, withNil, withZero,
		"omitted-optional and present-with-zero-value must encode differently")
}

func TestValidateAcceptsOwnOutput(t *testing.T) {
	b, err := attestcbor.Marshal(sample{A: 1, B: "y", C: []byte{0xff}})
	require.NoError(t, err)
	require.NoError(t, attestcbor.Validate(b))
}

// TestMarshalGoldenEncoding pins the exact byte layout of a canonical
// encoding. A failure here means the wire format changed, not just that two
// calls disagree with each other.
func TestMarshalGoldenEncoding(t *testing.T) {
	type pair struct {
		A uint64 `cbor:"1,keyasint"`
		B uint64 `cbor:"2,keyasint"`
	}
	golden := []byte{0xa2, 0x01, 0x01, 0x02, 0x02}

	b, err := attestcbor.Marshal(pair{A: 1, B: 2})
	require.NoError(t, err)
	assert.DeepEqual(t, golden, b)
}
