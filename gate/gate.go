// Package gate implements the fixed 64-byte gate instruction set: the
// closed opcode table, the signed-son addressing scheme, and the bijective
// encoding used both for wire transmission and as the accumulator's hash
// input.
package gate

import (
	"fmt"

	"github.com/soxlabs/disputecore/types"
)

// Opcode identifies which instruction a gate runs. The table is closed:
// any other byte value is a malformed gate.
type Opcode byte

const (
	OpAESCTR Opcode = 0x01
	OpSHA2   Opcode = 0x02
	OpConst  Opcode = 0x03
	OpXOR    Opcode = 0x04
	OpComp   Opcode = 0x05
)

func (o Opcode) String() string {
	switch o {
	case OpAESCTR:
		return "AES_CTR"
	case OpSHA2:
		return "SHA2"
	case OpConst:
		return "CONST"
	case OpXOR:
		return "XOR"
	case OpComp:
		return "COMP"
	default:
		return fmt.Sprintf("Opcode(0x%02x)", byte(o))
	}
}

// ValidOpcode reports whether o is one of the five defined instructions.
func ValidOpcode(o Opcode) bool {
	switch o {
	case OpAESCTR, OpSHA2, OpConst, OpXOR, OpComp:
		return true
	default:
		return false
	}
}

// EncodedSize is the fixed width of a gate's wire/hash encoding.
const EncodedSize = 64

// sonEncodedSize is the width of one signed son index within the encoding.
const sonEncodedSize = 6

// maxSon and minSon bound what fits in a signed 48-bit two's-complement field.
const (
	maxSon int64 = 0x7FFF_FFFF_FFFF
	minSon int64 = -0x8000_0000_0000
)

// Gate is one instruction in a circuit: an opcode, its ordered son indices
// (negative => ciphertext input block, positive => 1-indexed earlier gate),
// and opcode-specific parameters.
type Gate struct {
	Opcode Opcode          `json:"opcode"`
	Sons   []int64         `json:"sons"`
	Params types.HexBytes  `json:"params"`
}

// Encode lays the gate out as opcode (1B) | sons (arity*6B) | params | zero
// padding, to exactly 64 bytes. It is the canonical form hashed by the
// accumulator and the only form sent across the wire for evaluation.
func (g Gate) Encode() ([EncodedSize]byte, error) {
	var out [EncodedSize]byte
	if err := g.EncodeInto(&out); err != nil {
		return out, err
	}
	return out, nil
}

// EncodeInto writes the gate's encoding into a caller-supplied buffer,
// avoiding an allocation when encoding many gates in a row.
func (g Gate) EncodeInto(out *[EncodedSize]byte) error {
	for i := range out {
		out[i] = 0
	}
	out[0] = byte(g.Opcode)

	for i, son := range g.Sons {
		offset := 1 + i*sonEncodedSize
		if offset+sonEncodedSize > EncodedSize {
			return fmt.Errorf("gate: too many sons to fit in a %d-byte encoding", EncodedSize)
		}
		enc, err := encodeSon(son)
		if err != nil {
			return err
		}
		copy(out[offset:offset+sonEncodedSize], enc[:])
	}

	paramsStart := 1 + len(g.Sons)*sonEncodedSize
	paramsEnd := paramsStart + len(g.Params)
	if paramsEnd > EncodedSize {
		return fmt.Errorf("gate: params do not fit in a %d-byte encoding (need %d bytes at offset %d)", EncodedSize, len(g.Params), paramsStart)
	}
	copy(out[paramsStart:paramsEnd], g.Params)
	return nil
}

// encodeSon packs a signed value into 6 bytes of a big-endian two's
// complement 64-bit representation (the low 6 of the 8 bytes).
func encodeSon(n int64) ([sonEncodedSize]byte, error) {
	var out [sonEncodedSize]byte
	if n > maxSon || n < minSon {
		return out, fmt.Errorf("gate: son index %d does not fit in signed 48 bits", n)
	}
	be := encodeInt64BE(n)
	copy(out[:], be[2:8])
	return out, nil
}

// decodeSon is encodeSon's inverse, sign-extending the 6-byte field back to
// a full int64.
func decodeSon(b [sonEncodedSize]byte) int64 {
	var be [8]byte
	if b[0]&0x80 != 0 {
		be[0], be[1] = 0xFF, 0xFF
	}
	copy(be[2:8], b[:])
	return decodeInt64BE(be)
}

func encodeInt64BE(n int64) [8]byte {
	u := uint64(n)
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[7-i] = byte(u >> (8 * i))
	}
	return out
}

func decodeInt64BE(b [8]byte) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(b[i])
	}
	return int64(u)
}
