package checkpoint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironclad-robotics/attestcore/checkpoint"
	"github.com/ironclad-robotics/attestcore/xcrypto"
)

func buildChained(t *testing.T, signer xcrypto.Signer, sequence, counter uint64, prevRoot xcrypto.Hash256) checkpoint.Checkpoint {
	t.Helper()
	cp, err := checkpoint.NewBuilder().
		RobotID("R-001").
		MissionID("M-1").
		Sequence(sequence).
		MonotonicCounter(counter).
		ModelProvenance(checkpoint.ModelProvenance{Name: "nav-policy", ModelHash: xcrypto.SHA256([]byte("m"))}).
		FirmwareHash(xcrypto.SHA256([]byte("fw"))).
		EnclaveMeasurement(make([]byte, 32)).
		PrevRoot(prevRoot).
		EntriesRoot(xcrypto.SHA256([]byte("entries"))).
		InferenceConfig(checkpoint.DeterminismConfig{BatchSize: 1}).
		BuildAndSign(signer)
	require.NoError(t, err)
	return cp
}

func TestChainContinuityAccepted(t *testing.T) {
	signer, err := xcrypto.GenerateSigner()
	require.NoError(t, err)

	cp1 := buildChained(t, signer, 1, 100, checkpoint.GenesisPrevRoot())
	h1, err := checkpoint.ComputeHash(cp1)
	require.NoError(t, err)

	cp2 := buildChained(t, signer, 2, 101, h1)

	require.NoError(t, checkpoint.VerifyChain([]checkpoint.Checkpoint{cp1, cp2}, signer.VerifyingKey()))
}

func TestChainRejectsRepeatedSequenceOrCounter(t *testing.T) {
	signer, err := xcrypto.GenerateSigner()
	require.NoError(t, err)

	cp1 := buildChained(t, signer, 1, 100, checkpoint.GenesisPrevRoot())
	h1, err := checkpoint.ComputeHash(cp1)
	require.NoError(t, err)

	badSequence := buildChained(t, signer, 1, 101, h1)
	err = checkpoint.VerifyChain([]checkpoint.Checkpoint{cp1, badSequence}, signer.VerifyingKey())
	require.Error(t, err)

	badCounter := buildChained(t, signer, 2, 100, h1)
	err = checkpoint.VerifyChain([]checkpoint.Checkpoint{cp1, badCounter}, signer.VerifyingKey())
	require.Error(t, err)
}

func TestChainRejectsBrokenPrevRoot(t *testing.T) {
	signer, err := xcrypto.GenerateSigner()
	require.NoError(t, err)

	cp1 := buildChained(t, signer, 1, 100, checkpoint.GenesisPrevRoot())
	cp2 := buildChained(t, signer, 2, 101, xcrypto.SHA256([]byte("not the real prev hash")))

	err = checkpoint.VerifyChain([]checkpoint.Checkpoint{cp1, cp2}, signer.VerifyingKey())
	require.Error(t, err)

	var violation *checkpoint.ChainViolation
	require.ErrorAs(t, err, &violation)
}
