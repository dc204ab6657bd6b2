package circuit

import (
	"fmt"

	"github.com/soxlabs/disputecore/gate"
)

// SplitBlocks splits ciphertext data (with the IV already stripped) into
// BlockSize-byte blocks, zero-padding the last.
func SplitBlocks(data []byte) [][]byte {
	n := (len(data) + BlockSize - 1) / BlockSize
	blocks := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := i * BlockSize
		end := start + BlockSize
		if end > len(data) {
			end = len(data)
		}
		b := make([]byte, BlockSize)
		copy(b, data[start:end])
		blocks[i] = b
	}
	return blocks
}

// Evaluated is the result of running a compiled circuit: ciphertext data
// blocks followed by gate outputs in gate order, matching the spec's
// concatenated EvaluatedCircuit layout.
type Evaluated struct {
	NumBlocks uint32
	Values    [][]byte
}

// Evaluate runs c's gates against ct (IV(16B) || data) under key, returning
// the concatenated [data blocks, gate outputs] trace.
func Evaluate(c *Compiled, ct []byte, key []byte) (*Evaluated, error) {
	if len(ct) < IVSize {
		return nil, fmt.Errorf("circuit: ciphertext must include a %d-byte IV", IVSize)
	}
	data := ct[IVSize:]
	blocks := SplitBlocks(data)
	if uint32(len(blocks)) != c.NumBlocks {
		return nil, fmt.Errorf("circuit: ciphertext has %d blocks, circuit expects %d", len(blocks), c.NumBlocks)
	}

	outputs, err := gate.Evaluate(c.Gates, gate.NewSliceInputs(blocks), key)
	if err != nil {
		return nil, err
	}

	values := make([][]byte, 0, len(blocks)+len(outputs))
	values = append(values, blocks...)
	values = append(values, outputs...)
	return &Evaluated{NumBlocks: c.NumBlocks, Values: values}, nil
}
