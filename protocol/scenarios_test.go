package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soxlabs/disputecore/accumulator"
	"github.com/soxlabs/disputecore/internal/fixtures"
	"github.com/soxlabs/disputecore/primitives"
)

// TestScenarioS1HelloWorld mirrors the literal S1 fixture: a single-block
// plaintext, a fixed key/IV pair, and a wrong-key re-evaluation that must
// disagree.
func TestScenarioS1HelloWorld(t *testing.T) {
	file := fixtures.HelloWorld()
	key := fixtures.Key16()

	opts := Options{Rand: &fixedRand{seed: fixtures.IV16()}}
	pc, err := ComputePrecontract(file, key, opts)
	require.NoError(t, err)

	evaluated, err := EvaluateCircuit(pc.Circuit, pc.Ct, key)
	require.NoError(t, err)
	final := evaluated.Values[len(evaluated.Values)-1]
	assert.Equal(t, byte(1), final[0])

	wrongEvaluated, err := EvaluateCircuit(pc.Circuit, pc.Ct, fixtures.WrongKey16())
	require.NoError(t, err)
	wrongFinal := wrongEvaluated.Values[len(wrongEvaluated.Values)-1]
	assert.Equal(t, byte(0), wrongFinal[0])

	want := primitives.SHA256(file)
	assert.Equal(t, want[:], []byte(pc.Description))
}

// TestScenarioS6DisputeRoundOnMultiBlock mirrors S5/S6: a ten-block
// plaintext, with hpre at the midpoint challenge matching an independent
// accumulator computation over the same prefix.
func TestScenarioS6DisputeRoundOnMultiBlock(t *testing.T) {
	file := make([]byte, 640)
	for i := range file {
		file[i] = 0xCC
	}
	key := make([]byte, 16)
	for i := range key {
		key[i] = 0xAA
	}

	pc, err := ComputePrecontract(file, key, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint32(10), pc.NumBlocks)

	evaluated, err := EvaluateCircuit(pc.Circuit, pc.Ct, key)
	require.NoError(t, err)
	final := evaluated.Values[len(evaluated.Values)-1]
	assert.Equal(t, byte(1), final[0])

	decryptedFirstBlock := evaluated.Values[pc.NumBlocks]
	want := make([]byte, 64)
	for i := range want {
		want[i] = 0xCC
	}
	assert.Equal(t, want, decryptedFirstBlock)

	numGates := len(pc.Circuit.Gates)
	i := numGates / 2
	if i <= 1 {
		i = 2
	}

	gateOutputs := evaluated.Values[pc.NumBlocks:]
	hpreI, err := Hpre(evaluated.Values, int(pc.NumBlocks), i)
	require.NoError(t, err)
	assert.Equal(t, accumulator.Acc(gateOutputs[:i]), hpreI)

	bundle, err := BuildStep8a(pc.Circuit, evaluated.Values, pc.Ct, i)
	require.NoError(t, err)
	assert.Equal(t, []byte(hpreI), []byte(bundle.CurrAcc))

	hpreIMinus1, err := Hpre(evaluated.Values, int(pc.NumBlocks), i-1)
	require.NoError(t, err)
	okExt, err := accumulator.VerifyExt(hpreIMinus1, bundle.CurrAcc, i, gateOutputs[i-1], bundle.ProofExt)
	require.NoError(t, err)
	assert.True(t, okExt)

	gateIdx := i - 1
	okGate, err := accumulator.VerifyProof(pc.HCircuit, numGates, []uint32{uint32(gateIdx)}, [][]byte{bundle.GateBytes}, bundle.Proof1)
	require.NoError(t, err)
	assert.True(t, okGate)
}
