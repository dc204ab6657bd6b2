package primitives

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256OneShotMatchesStdlib(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	want := sha256.Sum256(data)
	got := SHA256(data)
	assert.Equal(t, want, got)
}

func TestSHA256CompressDefaultIVMatchesFullDigestOnSingleBlockMessage(t *testing.T) {
	// A message that is exactly one block after standard padding: 55 data
	// bytes + 0x80 + zero pad + 8-byte bit length == 64 bytes, so a plain
	// stdlib digest and one raw compression starting from the default IV
	// must agree.
	msg := bytes.Repeat([]byte{0x61}, 55)
	want := sha256.Sum256(msg)

	var block [64]byte
	copy(block[:], msg)
	block[55] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block[63-i] = byte(bitLen >> (8 * i))
	}

	got, err := SHA256Compress(nil, block)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSHA256CompressRejectsBadChainingStateLength(t *testing.T) {
	var block [64]byte
	_, err := SHA256Compress([]byte{0x01, 0x02}, block)
	require.Error(t, err)
}

func TestSHA256CompressChainsAcrossTwoBlocks(t *testing.T) {
	msg := bytes.Repeat([]byte{0x42}, 64)
	var block1 [64]byte
	copy(block1[:], msg)

	firstState, err := SHA256Compress(nil, block1)
	require.NoError(t, err)

	var block2 [64]byte
	block2[0] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block2[63-i] = byte(bitLen >> (8 * i))
	}
	final, err := SHA256Compress(firstState[:], block2)
	require.NoError(t, err)

	want := sha256.Sum256(msg)
	assert.Equal(t, want, final)
}

func TestAESCTRKeystreamRejectsWrongLengths(t *testing.T) {
	key := make([]byte, 16)
	ctr := make([]byte, 16)

	_, err := AESCTRKeystream(key[:15], ctr)
	require.Error(t, err)

	_, err = AESCTRKeystream(key, ctr[:15])
	require.Error(t, err)
}

func TestAESCTRKeystreamDeterministicAndCounterSensitive(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 16)
	ctr := make([]byte, 16)

	a, err := AESCTRKeystream(key, ctr)
	require.NoError(t, err)
	b, err := AESCTRKeystream(key, ctr)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	ctr2 := IncrementCounterBE(ctr, 4)
	c, err := AESCTRKeystream(key, ctr2)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestIncrementCounterBECarries(t *testing.T) {
	ctr := make([]byte, 16)
	for i := 8; i < 16; i++ {
		ctr[i] = 0xff
	}
	next := IncrementCounterBE(ctr, 1)
	for i := 8; i < 16; i++ {
		assert.Equal(t, byte(0x00), next[i])
	}
	assert.Equal(t, byte(0x01), next[7])
}

func TestKeccak256MatchesKnownVector(t *testing.T) {
	// Keccak256("") is a well-known constant.
	got := Keccak256([]byte{})
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	assert.Equal(t, want[:64], hexString(got))
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}

func TestKeccak256VariadicConcatenatesInputs(t *testing.T) {
	a := Keccak256([]byte("ab"))
	b := Keccak256([]byte("a"), []byte("b"))
	assert.Equal(t, a, b)
}
