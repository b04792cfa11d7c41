package merklelog_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/merklelog"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

func entryFor(t *testing.T, us, nonce uint64, data string) merklelog.Entry {
	t.Helper()
	return merklelog.Entry{
		TimestampUs: us,
		Nonce:       nonce,
		DataHash:    xcrypto.SHA256([]byte(data)),
	}
}

func TestEmptyLogRootIsZero(t *testing.T) {
	log := merklelog.NewLog()
	var zero xcrypto.Hash256
	require.Equal(t, zero, log.Root())
}

func TestSingleEntryRootIsLeafHash(t *testing.T) {
	log := merklelog.NewLog()
	e := entryFor(t, 100, 0, "e0")
	log.Insert(e)

	require.Equal(t, merklelog.HashLeaf(e), log.Root())
}

func TestOrderIndependence(t *testing.T) {
	entries := []merklelog.Entry{
		entryFor(t, 100, 0, "e0"),
		entryFor(t, 101, 0, "e1"),
		entryFor(t, 102, 0, "e2"),
		entryFor(t, 103, 0, "e3"),
	}

	forward := merklelog.NewLog()
	for _, e := range entries {
		forward.Insert(e)
	}

	reversed := merklelog.NewLog()
	for i := len(entries) - 1; i >= 0; i-- {
		reversed.Insert(entries[i])
	}

	require.Equal(t, forward.Root(), reversed.Root())

	shuffled := merklelog.NewLog()
	perm := rand.New(rand.NewSource(1)).Perm(len(entries))
	for _, i := range perm {
		shuffled.Insert(entries[i])
	}
	require.Equal(t, forward.Root(), shuffled.Root())
}

func TestDuplicateKeyOverwrites(t *testing.T) {
	log := merklelog.NewLog()
	first := entryFor(t, 100, 0, "first")
	second := entryFor(t, 100, 0, "second")

	overwrote := log.Insert(first)
	require.False(t, overwrote)
	overwrote = log.Insert(second)
	require.True(t, overwrote)

	require.Equal(t, 1, log.Len())
	require.Equal(t, merklelog.HashLeaf(second), log.Root())
}

func TestClearResetsToEmptyRoot(t *testing.T) {
	log := merklelog.NewLog()
	log.Insert(entryFor(t, 100, 0, "e0"))
	require.NotZero(t, log.Len())

	log.Clear()
	require.Equal(t, 0, log.Len())

	var zero xcrypto.Hash256
	require.Equal(t, zero, log.Root())
}

func TestDisambiguationByNonce(t *testing.T) {
	log := merklelog.NewLog()
	a := entryFor(t, 500, 0, "a")
	b := entryFor(t, 500, 1, "b")

	log.Insert(a)
	log.Insert(b)
	require.Equal(t, 2, log.Len())
}
