package accumulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soxlabs/disputecore/gate"
	"github.com/soxlabs/disputecore/primitives"
)

func leaves(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i), byte(i + 1), byte(i + 2)}
	}
	return out
}

func TestAccEmptyIsSentinel(t *testing.T) {
	assert.Nil(t, Acc(nil))
}

func TestAccSingleLeafIsItsHash(t *testing.T) {
	v := []byte("solo")
	assert.Equal(t, HashLeaf(v), Acc([][]byte{v}))
}

func TestAccFixed64MatchesSequentialAcc(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7, 8, 13} {
		vs := leaves(n)
		seq := Acc(vs)
		par, err := AccFixed64(vs)
		require.NoError(t, err)
		assert.Equal(t, seq, par, "n=%d", n)
	}
}

func TestPromoteOddAsymmetryCollides(t *testing.T) {
	a, b, c, d := []byte("a"), []byte("b"), []byte("c"), []byte("d")
	root4 := Acc([][]byte{a, b, c, d})

	// [a, b, Hc||Hd] collides with [a,b,c,d] under "promote odd": the third
	// leaf hashes to Keccak(Hc||Hd), the interior node over c and d, and the
	// odd third node is promoted unchanged into that node's position.
	cd := append(append([]byte(nil), HashLeaf(c)...), HashLeaf(d)...)
	require.Equal(t, primitives.Keccak256(HashLeaf(c), HashLeaf(d)), HashLeaf(cd))
	threeLeafRoot := Acc([][]byte{a, b, cd})

	assert.Equal(t, root4, threeLeafRoot, "promote-odd layout must collide per spec.md §4.2/§9")
}

func TestProveVerifyRoundTripMultiLeaf(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 16, 17} {
		vs := leaves(n)
		root := Acc(vs)
		indices := []uint32{0}
		if n > 1 {
			indices = append(indices, uint32(n-1))
		}
		if n > 3 {
			indices = append(indices, uint32(n/2))
		}
		values := make([][]byte, len(indices))
		for i, idx := range indices {
			values[i] = vs[idx]
		}
		proof, err := Prove(vs, indices)
		require.NoError(t, err)
		ok, err := VerifyProof(root, n, indices, values, proof)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d indices=%v", n, indices)
	}
}

func TestVerifyProofRejectsWrongValue(t *testing.T) {
	vs := leaves(6)
	root := Acc(vs)
	proof, err := Prove(vs, []uint32{2})
	require.NoError(t, err)
	ok, err := VerifyProof(root, 6, []uint32{2}, [][]byte{[]byte("wrong")}, proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProveExtVerifyExtRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 16, 17} {
		vs := leaves(n)
		currRoot := Acc(vs)
		prevRoot := Acc(vs[:n-1])
		proof, err := ProveExt(vs)
		require.NoError(t, err)
		ok, err := VerifyExt(prevRoot, currRoot, n, vs[n-1], proof)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d", n)
	}
}

func TestVerifyExtRejectsMismatchedPrevRoot(t *testing.T) {
	vs := leaves(6)
	currRoot := Acc(vs)
	proof, err := ProveExt(vs)
	require.NoError(t, err)
	ok, err := VerifyExt([]byte("not the prev root"), currRoot, 6, vs[5], proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccCircuitMatchesEncodedGateAcc(t *testing.T) {
	gates := []gate.Gate{
		{Opcode: gate.OpConst, Params: bytesOf(1, 32)},
		{Opcode: gate.OpConst, Params: bytesOf(2, 32)},
		{Opcode: gate.OpXOR, Sons: []int64{1, 2}},
	}
	encoded := make([][]byte, len(gates))
	for i, g := range gates {
		enc, err := g.Encode()
		require.NoError(t, err)
		encoded[i] = append([]byte(nil), enc[:]...)
	}

	want, err := AccFixed64(encoded)
	require.NoError(t, err)
	got, err := AccCircuit(gates)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func bytesOf(v byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}
