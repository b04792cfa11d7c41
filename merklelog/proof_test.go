package merklelog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/merklelog"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

func buildFiveEntryLog(t *testing.T) (*merklelog.Log, []merklelog.Entry) {
	t.Helper()
	entries := []merklelog.Entry{
		entryFor(t, 100, 0, "e0"),
		entryFor(t, 101, 0, "e1"),
		entryFor(t, 102, 0, "e2"),
		entryFor(t, 103, 0, "e3"),
		entryFor(t, 104, 0, "e4"),
	}
	log := merklelog.NewLog()
	for _, e := range entries {
		log.Insert(e)
	}
	return log, entries
}

func TestProofRoundTrip(t *testing.T) {
	log, entries := buildFiveEntryLog(t)
	root := log.Root()

	for _, e := range entries {
		proof, err := log.Proof(e.ID())
		require.NoError(t, err)
		require.True(t, merklelog.VerifyProof(proof, root))
	}
}

func TestProofOfThirdInsertedEntry(t *testing.T) {
	log, entries := buildFiveEntryLog(t)
	root := log.Root()

	// "Third-inserted" per spec scenario 3 — insertion order doesn't affect
	// the tree shape (order independence), only which entry we ask about.
	proof, err := log.Proof(entries[2].ID())
	require.NoError(t, err)
	require.True(t, merklelog.VerifyProof(proof, root))
}

func TestProofRejectsFlippedSiblingByte(t *testing.T) {
	log, entries := buildFiveEntryLog(t)
	root := log.Root()

	proof, err := log.Proof(entries[2].ID())
	require.NoError(t, err)
	require.NotEmpty(t, proof.Siblings)

	mutated := proof
	mutated.Siblings = append([]xcrypto.Hash256(nil), proof.Siblings...)
	mutated.Siblings[0][0] ^= 0xff

	require.False(t, merklelog.VerifyProof(mutated, root))
}

func TestProofNotFound(t *testing.T) {
	log, _ := buildFiveEntryLog(t)
	_, err := log.Proof(merklelog.EntryID{TimestampUs: 999, Nonce: 0})
	require.Error(t, err)
}
