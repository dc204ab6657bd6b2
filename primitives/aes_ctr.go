package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// AESKeySize and AESCounterSize are the fixed widths the AES_CTR gate
// requires: a 128-bit key and a 128-bit big-endian counter (spec.md §4.1).
const (
	AESKeySize     = 16
	AESCounterSize = 16
)

// AESCTRKeystream produces exactly one 64-byte keystream block: four 16-byte
// AES-128 stripes encrypted under successive big-endian counter values
// counter, counter+1, counter+2, counter+3. It does not touch the caller's
// plaintext; XOR-ing it in is the gate evaluator's job (opcode 0x01).
func AESCTRKeystream(key, counter []byte) ([64]byte, error) {
	var out [64]byte
	if len(key) != AESKeySize {
		return out, fmt.Errorf("aes_ctr: key must be %d bytes, got %d", AESKeySize, len(key))
	}
	if len(counter) != AESCounterSize {
		return out, fmt.Errorf("aes_ctr: counter must be %d bytes, got %d", AESCounterSize, len(counter))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return out, fmt.Errorf("aes_ctr: new cipher: %w", err)
	}

	var ctr [AESCounterSize]byte
	copy(ctr[:], counter)
	stream := cipher.NewCTR(block, ctr[:])

	var zero [64]byte
	stream.XORKeyStream(out[:], zero[:])
	return out, nil
}

// IncrementCounterBE adds delta to a 128-bit big-endian counter, treating it
// as a single unsigned integer (the "+4 per block" stride of spec.md §4.1).
func IncrementCounterBE(counter []byte, delta uint64) []byte {
	out := make([]byte, len(counter))
	copy(out, counter)

	hi := binary.BigEndian.Uint64(out[:8])
	lo := binary.BigEndian.Uint64(out[8:16])

	newLo := lo + delta
	if newLo < lo {
		hi++
	}
	binary.BigEndian.PutUint64(out[:8], hi)
	binary.BigEndian.PutUint64(out[8:16], newLo)
	return out
}
