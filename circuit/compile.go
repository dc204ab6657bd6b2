// Package circuit compiles a ciphertext and a target plaintext digest into
// a straight-line gate DAG whose final gate outputs 1 iff decrypting the
// ciphertext under the eventual key yields a plaintext hashing to the
// digest. SHA-256 padding is emitted as gates, not computed by a library
// call, so every byte of the padded message is visible to the bisection
// dispute protocol.
package circuit

import (
	"encoding/binary"
	"fmt"

	"github.com/soxlabs/disputecore/gate"
	"github.com/soxlabs/disputecore/primitives"
)

// IVSize is the width of the prepended counter-IV in a ciphertext.
const IVSize = 16

// BlockSize is the uniform gate block width.
const BlockSize = 64

// Compiled is a compiled circuit: an ordered gate sequence plus the
// metadata needed to evaluate and accumulate it.
type Compiled struct {
	Version   uint32
	Gates     []gate.Gate
	BlockSize uint32
	NumBlocks uint32
}

// Compile builds the gate sequence for ct (IV(16B) || ciphertext data) and
// description (the target 32-byte SHA-256 digest).
func Compile(ct []byte, description []byte) (*Compiled, error) {
	if len(ct) < IVSize {
		return nil, fmt.Errorf("circuit: ciphertext must include a %d-byte IV", IVSize)
	}
	iv := ct[:IVSize]
	data := ct[IVSize:]

	ptLen := len(data)
	m := (ptLen + BlockSize - 1) / BlockSize
	if m == 0 {
		return nil, fmt.Errorf("circuit: ciphertext must contain at least one block")
	}

	rem := ptLen % BlockSize
	lenBits := uint64(ptLen) * 8

	estimated := m + m + 1 + 7
	gates := make([]gate.Gate, 0, estimated)
	blockOutputs := make([]int, 0, m+1)

	for i := 0; i < m; i++ {
		counter := primitives.IncrementCounterBE(iv, uint64(i)*(BlockSize/16))
		remaining := ptLen - i*BlockSize
		if remaining < 0 {
			remaining = 0
		}
		bits := remaining * 8
		if bits > 512 {
			bits = 512
		}

		params := make([]byte, 0, 18)
		params = append(params, counter...)
		params = append(params, beU16(uint16(bits))...)

		gates = append(gates, gate.Gate{
			Opcode: gate.OpAESCTR,
			Sons:   []int64{-(int64(i) + 1)},
			Params: params,
		})
		blockOutputs = append(blockOutputs, len(gates)-1)
	}

	lastGateNum := int64(blockOutputs[len(blockOutputs)-1] + 1)

	switch {
	case rem == 0:
		// Full last block: SHA-256 padding needs an entirely separate block.
		extra := make([]byte, BlockSize)
		extra[0] = 0x80
		binary.BigEndian.PutUint64(extra[56:64], lenBits)

		idx, err := appendPaddingConst(&gates, nil, extra)
		if err != nil {
			return nil, err
		}
		blockOutputs = append(blockOutputs, idx)

	case rem <= BlockSize-9:
		// Room for the 0x80 marker and the length in the same block.
		mask := make([]byte, BlockSize)
		mask[rem] = 0x80
		binary.BigEndian.PutUint64(mask[56:64], lenBits)

		idx, err := appendPaddingConst(&gates, nil, mask)
		if err != nil {
			return nil, err
		}
		xorIdx, err := appendXOR(&gates, lastGateNum, int64(idx+1))
		if err != nil {
			return nil, err
		}
		blockOutputs[len(blockOutputs)-1] = xorIdx

	default:
		// rem > 55: the 0x80 marker fits, but the length spills into an
		// extra block.
		mask := make([]byte, BlockSize)
		mask[rem] = 0x80

		idx, err := appendPaddingConst(&gates, nil, mask)
		if err != nil {
			return nil, err
		}
		xorIdx, err := appendXOR(&gates, lastGateNum, int64(idx+1))
		if err != nil {
			return nil, err
		}
		blockOutputs[len(blockOutputs)-1] = xorIdx

		extra := make([]byte, BlockSize)
		binary.BigEndian.PutUint64(extra[56:64], lenBits)
		extraIdx, err := appendPaddingConst(&gates, nil, extra)
		if err != nil {
			return nil, err
		}
		blockOutputs = append(blockOutputs, extraIdx)
	}

	var prevHashGateNum int64
	for _, blkIdx := range blockOutputs {
		blkGateNum := int64(blkIdx + 1)
		if prevHashGateNum == 0 {
			gates = append(gates, gate.Gate{Opcode: gate.OpSHA2, Sons: []int64{blkGateNum}})
		} else {
			gates = append(gates, gate.Gate{Opcode: gate.OpSHA2, Sons: []int64{prevHashGateNum, blkGateNum}})
		}
		prevHashGateNum = int64(len(gates))
	}
	finalHashGateNum := prevHashGateNum

	descParams := make([]byte, 32)
	n := len(description)
	if n > 32 {
		n = 32
	}
	copy(descParams, description[:n])
	gates = append(gates, gate.Gate{Opcode: gate.OpConst, Params: descParams})
	descGateNum := int64(len(gates))

	gates = append(gates, gate.Gate{Opcode: gate.OpComp, Sons: []int64{finalHashGateNum, descGateNum}})

	return &Compiled{
		Version:   1,
		Gates:     gates,
		BlockSize: BlockSize,
		NumBlocks: uint32(m),
	}, nil
}

// appendPaddingConst emits a 64-byte constant (built from two CONST gates,
// arity 0 then arity 1, each carrying 32 bytes) and returns its 0-indexed
// gate position.
func appendPaddingConst(gates *[]gate.Gate, _ []byte, block []byte) (int, error) {
	if len(block) != BlockSize {
		return 0, fmt.Errorf("circuit: padding block must be %d bytes", BlockSize)
	}
	*gates = append(*gates, gate.Gate{Opcode: gate.OpConst, Params: append([]byte(nil), block[:32]...)})
	headNum := int64(len(*gates))
	*gates = append(*gates, gate.Gate{Opcode: gate.OpConst, Sons: []int64{headNum}, Params: append([]byte(nil), block[32:]...)})
	return len(*gates) - 1, nil
}

func appendXOR(gates *[]gate.Gate, a, b int64) (int, error) {
	*gates = append(*gates, gate.Gate{Opcode: gate.OpXOR, Sons: []int64{a, b}})
	return len(*gates) - 1, nil
}

func beU16(v uint16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, v)
	return out
}
