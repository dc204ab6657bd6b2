package protocol

import (
	"fmt"

	"github.com/soxlabs/disputecore/accumulator"
)

// Hpre returns the accumulator over the first i gate outputs (1-indexed,
// matching the paper's notation): acc(values[numBlocks : numBlocks+i]),
// where values is the evaluated trace's [ciphertext blocks, gate outputs]
// concatenation. By convention hpre(0) is the empty accumulator (nil),
// matching "no gates agreed on yet" at the start of a dispute.
func Hpre(values [][]byte, numBlocks, i int) ([]byte, error) {
	if i == 0 {
		return nil, nil
	}
	if i < 0 {
		return nil, fmt.Errorf("protocol: hpre index %d must be >= 0", i)
	}
	start := numBlocks
	end := numBlocks + i
	if end > len(values) {
		return nil, fmt.Errorf("protocol: hpre(%d) needs %d values, trace has %d", i, end, len(values))
	}
	return accumulator.Acc(values[start:end]), nil
}
