// Package fixtures holds deterministic keys, IVs, and plaintexts for
// scenario tests; protocol's S1 scenario test builds on them. Adapted from
// the "build once, reuse" shape of a setup
// helper rather than a one-off main() — nothing here writes to disk.
package fixtures

// Key16 is a fixed, non-zero AES-128 key used wherever a scenario doesn't
// care which key, only that it's stable across runs.
func Key16() []byte {
	return []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	}
}

// IV16 is a fixed, non-zero counter-IV paired with Key16.
func IV16() []byte {
	return []byte{
		0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
		0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F,
	}
}

// WrongKey16 differs from Key16 in every byte, for scenarios that check a
// key mismatch is caught (S1's "wrong key yields final byte 0").
func WrongKey16() []byte {
	out := make([]byte, 16)
	for i := range out {
		out[i] = 0xFF
	}
	return out
}

// HelloWorld is scenario S1's 13-byte single-block plaintext.
func HelloWorld() []byte {
	return []byte("Hello, World!")
}

// SingleBlockBoundary is scenario S4's exact-64-byte plaintext: the
// rem==0 padding case that needs an entirely separate padding block.
func SingleBlockBoundary() []byte {
	out := make([]byte, 64)
	for i := range out {
		out[i] = 0xCD
	}
	return out
}

// MultiBlock is a multi-block plaintext (three full blocks plus a partial
// one) exercising the compiler's block-chaining path end to end.
func MultiBlock() []byte {
	out := make([]byte, 64*3+20)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// RemAtBoundary55 is the tightest rem that still fits the 0x80 marker and
// the 8-byte bit length in the same padding block.
func RemAtBoundary55() []byte {
	out := make([]byte, 64+55)
	for i := range out {
		out[i] = byte(i * 7)
	}
	return out
}

// RemSpillsLengthToExtraBlock has rem=60, past the 55-byte boundary of
// RemAtBoundary55: the 0x80 marker still fits, but the length spills into a
// new block.
func RemSpillsLengthToExtraBlock() []byte {
	out := make([]byte, 60)
	for i := range out {
		out[i] = byte(i * 11)
	}
	return out
}
