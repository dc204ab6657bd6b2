package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateEncodeSizeAndOpcode(t *testing.T) {
	g := Gate{Opcode: OpConst, Sons: []int64{1}, Params: bytesOf(0xAB, 32)}
	enc, err := g.Encode()
	require.NoError(t, err)
	assert.Len(t, enc, EncodedSize)
	assert.Equal(t, byte(OpConst), enc[0])
}

func TestGateEncodeRejectsOversizedSons(t *testing.T) {
	sons := make([]int64, 11) // 11*6 = 66 > 63 remaining bytes
	g := Gate{Opcode: OpXOR, Sons: sons}
	_, err := g.Encode()
	require.Error(t, err)
}

func TestGateEncodeRejectsOversizedParams(t *testing.T) {
	g := Gate{Opcode: OpConst, Params: bytesOf(0x01, 64)}
	_, err := g.Encode()
	require.Error(t, err)
}

func TestSonEncodeDecodeRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 12345, -12345, maxSon, minSon}
	for _, c := range cases {
		enc, err := encodeSon(c)
		require.NoError(t, err)
		assert.Equal(t, c, decodeSon(enc), "round trip for %d", c)
	}
}

func TestSonEncodeRejectsOutOfRange(t *testing.T) {
	_, err := encodeSon(maxSon + 1)
	require.Error(t, err)
	_, err = encodeSon(minSon - 1)
	require.Error(t, err)
}

func TestValidOpcode(t *testing.T) {
	assert.True(t, ValidOpcode(OpAESCTR))
	assert.True(t, ValidOpcode(OpComp))
	assert.False(t, ValidOpcode(Opcode(0x00)))
	assert.False(t, ValidOpcode(Opcode(0x06)))
}

func TestEvaluateConstXorComp(t *testing.T) {
	// g1: CONST -> [1;32] || [0;32]
	g1 := Gate{Opcode: OpConst, Params: bytesOf(1, 32)}
	// g2: CONST -> [2;32] || [0;32]
	g2 := Gate{Opcode: OpConst, Params: bytesOf(2, 32)}
	// g3: XOR(g1, g2)
	g3 := Gate{Opcode: OpXOR, Sons: []int64{1, 2}}
	// g4: COMP(g3, g3) -> equal
	g4 := Gate{Opcode: OpComp, Sons: []int64{3, 3}}

	values, err := Evaluate([]Gate{g1, g2, g3, g4}, NewSliceInputs(nil), make([]byte, 16))
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, byte(1), values[0][0])
	assert.Equal(t, byte(2), values[1][0])
	assert.Equal(t, byte(1^2), values[2][0])
	assert.Equal(t, byte(1), values[3][0])
}

func TestEvaluateRejectsBadAESKeyLength(t *testing.T) {
	_, err := Evaluate(nil, NewSliceInputs(nil), make([]byte, 15))
	require.Error(t, err)
}

func TestEvaluateRejectsZeroSonIndex(t *testing.T) {
	g := Gate{Opcode: OpXOR, Sons: []int64{0, 1}}
	_, err := Evaluate([]Gate{g}, NewSliceInputs(nil), make([]byte, 16))
	require.Error(t, err)
}

func TestEvaluateResolvesNegativeSonsAgainstInputs(t *testing.T) {
	block := bytesOf(0x11, 64)
	g := Gate{Opcode: OpXOR, Sons: []int64{-1, -1}}
	values, err := Evaluate([]Gate{g}, NewSliceInputs([][]byte{block}), make([]byte, 16))
	require.NoError(t, err)
	for _, b := range values[0] {
		assert.Equal(t, byte(0), b)
	}
}

func bytesOf(v byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}
