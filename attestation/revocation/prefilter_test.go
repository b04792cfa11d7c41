package revocation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/attestation/revocation"
)

func TestNewPrefilterRejectsZeroCapacity(t *testing.T) {
	_, err := revocation.NewPrefilter(0)
	require.ErrorIs(t, err, revocation.ErrCapacity)
}

func TestUninsertedIdentityIsDefinitelyNotRevoked(t *testing.T) {
	pf, err := revocation.NewPrefilter(1000)
	require.NoError(t, err)

	require.False(t, pf.MaybeRevoked([]byte("serial-not-inserted")))
}

func TestInsertedIdentityNeverHidesAsNotRevoked(t *testing.T) {
	pf, err := revocation.NewPrefilter(1000)
	require.NoError(t, err)

	serials := [][]byte{
		[]byte("serial-001"),
		[]byte("serial-002"),
		[]byte("serial-003"),
	}
	for _, s := range serials {
		require.NoError(t, pf.Insert(s))
	}
	for _, s := range serials {
		require.True(t, pf.MaybeRevoked(s), "a previously inserted identity must never read back as definitely-not-revoked")
	}
}
