package primitives

import (
	"crypto/sha256"
	"fmt"
)

// SHA256 is the standard one-shot SHA-256 digest. Used for the file
// description and, inside the circuit compiler, as the reference value the
// gate chain is built to reproduce.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// sha256InitialState is the FIPS 180-4 SHA-256 initial hash value H(0).
var sha256InitialState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// sha256RoundConstants is the FIPS 180-4 table of round constants K.
var sha256RoundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func rotr(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// sha256Compress runs exactly one SHA-256 compression on a single 64-byte
// message block, starting from the given 8-word chaining state. This is the
// bare compression function with no length padding: the circuit compiler
// performs SHA-256 padding itself, as XOR-with-constant gates, so the
// on-chain verifier can recompute any single gate in isolation (spec.md §9).
func sha256Compress(state [8]uint32, block [64]byte) [8]uint32 {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = uint32(block[i*4])<<24 | uint32(block[i*4+1])<<16 | uint32(block[i*4+2])<<8 | uint32(block[i*4+3])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr(w[i-15], 7) ^ rotr(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr(w[i-2], 17) ^ rotr(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, h := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]
	for i := 0; i < 64; i++ {
		s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + sha256RoundConstants[i] + w[i]
		s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}

	return [8]uint32{
		state[0] + a, state[1] + b, state[2] + c, state[3] + d,
		state[4] + e, state[5] + f, state[6] + g, state[7] + h,
	}
}

func stateToBytes(s [8]uint32) [32]byte {
	var out [32]byte
	for i, w := range s {
		out[i*4] = byte(w >> 24)
		out[i*4+1] = byte(w >> 16)
		out[i*4+2] = byte(w >> 8)
		out[i*4+3] = byte(w)
	}
	return out
}

func bytesToState(b [32]byte) [8]uint32 {
	var s [8]uint32
	for i := range s {
		s[i] = uint32(b[i*4])<<24 | uint32(b[i*4+1])<<16 | uint32(b[i*4+2])<<8 | uint32(b[i*4+3])
	}
	return s
}

// SHA256Compress is the gate-primitive form of the compression function
// (opcode 0x02 in the gate table): one compression of a 64-byte block,
// starting either from the standard SHA-256 initial state (prevState == nil)
// or from a caller-supplied 32-byte chaining value.
func SHA256Compress(prevState []byte, block [64]byte) ([32]byte, error) {
	state := sha256InitialState
	if prevState != nil {
		if len(prevState) != 32 {
			return [32]byte{}, fmt.Errorf("sha256 compress: chaining state must be 32 bytes, got %d", len(prevState))
		}
		var fixed [32]byte
		copy(fixed[:], prevState)
		state = bytesToState(fixed)
	}
	return stateToBytes(sha256Compress(state, block)), nil
}
