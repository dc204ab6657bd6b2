package protocol

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soxlabs/disputecore/accumulator"
	"github.com/soxlabs/disputecore/circuit"
	"github.com/soxlabs/disputecore/gate"
	"github.com/soxlabs/disputecore/types"
)

// ProofBundle is the artifact handed to an external verifier at the
// terminal round of a dispute: the challenged gate, its materialised son
// values, the accumulator it extends, and the four Merkle proofs that let
// the verifier re-derive and re-check everything without trusting either
// party.
type ProofBundle struct {
	GateBytes types.HexBytes   `json:"gate_bytes"`
	Values    []types.HexBytes `json:"values"`
	CurrAcc   types.HexBytes   `json:"curr_acc"`
	Proof1    accumulator.Proof `json:"proof1"`
	Proof2    accumulator.Proof `json:"proof2"`
	Proof3    accumulator.Proof `json:"proof3"`
	ProofExt  accumulator.Proof `json:"proof_ext"`
}

// splitSonsIndices partitions a gate's sons into the ciphertext-block
// 0-indexed positions its negative sons reference (L, shifted to 0-indexed)
// and the earlier-gate 0-indexed positions its positive sons reference.
func splitSonsIndices(sons []int64, numBlocks uint32) (inL, notInLMinusM []uint32) {
	for _, s := range sons {
		switch {
		case s < 0:
			ctIdx := uint32(-s)
			if ctIdx >= 1 && ctIdx <= numBlocks {
				inL = append(inL, ctIdx-1)
			}
		case s > 0:
			notInLMinusM = append(notInLMinusM, uint32(s-1))
		}
	}
	return inL, notInLMinusM
}

// evaluatedSons materialises a gate's son values directly from the
// evaluated trace: negative sons read ciphertext data blocks, positive
// sons read earlier gate outputs. No normalization is applied here; each
// gate evaluator normalizes its own inputs as needed.
func evaluatedSons(g gate.Gate, gateOutputs, dataBlocks [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(g.Sons))
	for _, s := range g.Sons {
		switch {
		case s < 0:
			idx := int(-s - 1)
			if idx >= len(dataBlocks) {
				return nil, fmt.Errorf("protocol: dummy gate index %d out of bounds", s)
			}
			out = append(out, dataBlocks[idx])
		case s == 0:
			return nil, fmt.Errorf("protocol: gate index cannot be 0 (gates are 1-indexed)")
		default:
			idx := int(s - 1)
			if idx >= len(gateOutputs) {
				return nil, fmt.Errorf("protocol: gate index %d out of bounds", s)
			}
			out = append(out, gateOutputs[idx])
		}
	}
	return out, nil
}

func encodedGates(gates []gate.Gate) ([][]byte, error) {
	out := make([][]byte, len(gates))
	for i, g := range gates {
		buf, err := g.Encode()
		if err != nil {
			return nil, err
		}
		out[i] = append([]byte(nil), buf[:]...)
	}
	return out, nil
}

func shiftUp(indices []uint32, by uint32) []uint32 {
	out := make([]uint32, len(indices))
	for i, v := range indices {
		out[i] = v + by
	}
	return out
}

func hexBytesSlice(values [][]byte) []types.HexBytes {
	out := make([]types.HexBytes, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ctContext is the ciphertext split both ways a dispute bundle needs it:
// data blocks alone (0-indexed, matching a gate's negative son addressing)
// and IV-prefixed (matching hCt's tree, whose leaf 0 is the IV).
type ctContext struct {
	dataBlocks   [][]byte
	blocksWithIV [][]byte
}

func splitCiphertext(ct []byte) (ctContext, error) {
	if len(ct) < circuit.IVSize {
		return ctContext{}, fmt.Errorf("protocol: ciphertext must include a %d-byte IV", circuit.IVSize)
	}
	iv := ct[:circuit.IVSize]
	dataBlocks := circuit.SplitBlocks(ct[circuit.IVSize:])
	withIV := make([][]byte, 0, len(dataBlocks)+1)
	withIV = append(withIV, iv)
	withIV = append(withIV, dataBlocks...)
	return ctContext{dataBlocks: dataBlocks, blocksWithIV: withIV}, nil
}

// BuildStep8a builds the terminal-round bundle for an interior challenge
// index 1 < i <= num_gates.
func BuildStep8a(c *circuit.Compiled, values [][]byte, ct []byte, i int) (*ProofBundle, error) {
	numGates := len(c.Gates)
	if i <= 1 || i > numGates {
		return nil, fmt.Errorf("protocol: step 8a requires 1 < i <= %d, got %d", numGates, i)
	}
	numBlocks := int(c.NumBlocks)
	gateIdx := i - 1
	g := c.Gates[gateIdx]

	ctx, err := splitCiphertext(ct)
	if err != nil {
		return nil, err
	}
	gateOutputs := values[numBlocks:]

	inL, notInLMinusM := splitSonsIndices(g.Sons, uint32(numBlocks))
	sonValues, err := evaluatedSons(g, gateOutputs, ctx.dataBlocks)
	if err != nil {
		return nil, err
	}

	currAcc, err := Hpre(values, numBlocks, i)
	if err != nil {
		return nil, err
	}

	gates, err := encodedGates(c.Gates)
	if err != nil {
		return nil, err
	}
	proof1, err := accumulator.Prove(gates, []uint32{uint32(gateIdx)})
	if err != nil {
		return nil, fmt.Errorf("protocol: proof1: %w", err)
	}
	proof2, err := accumulator.Prove(ctx.blocksWithIV, shiftUp(inL, 1))
	if err != nil {
		return nil, fmt.Errorf("protocol: proof2: %w", err)
	}
	proof3, err := accumulator.Prove(gateOutputs[:gateIdx], notInLMinusM)
	if err != nil {
		return nil, fmt.Errorf("protocol: proof3: %w", err)
	}
	proofExt, err := accumulator.ProveExt(gateOutputs[:i])
	if err != nil {
		return nil, fmt.Errorf("protocol: proof_ext: %w", err)
	}

	gateBytes, err := g.Encode()
	if err != nil {
		return nil, err
	}

	log.Debug().Int("i", i).Int("num_gates", numGates).Msg("step 8a bundle built")

	return &ProofBundle{
		GateBytes: gateBytes[:],
		Values:    hexBytesSlice(sonValues),
		CurrAcc:   currAcc,
		Proof1:    proof1,
		Proof2:    proof2,
		Proof3:    proof3,
		ProofExt:  proofExt,
	}, nil
}

// BuildStep8b builds the terminal-round bundle for the first-gate case
// i = 1: there is no earlier gate to reference, so proof3 is empty.
func BuildStep8b(c *circuit.Compiled, values [][]byte, ct []byte) (*ProofBundle, error) {
	if len(c.Gates) == 0 {
		return nil, fmt.Errorf("protocol: circuit has no gates")
	}
	numBlocks := int(c.NumBlocks)
	g := c.Gates[0]

	ctx, err := splitCiphertext(ct)
	if err != nil {
		return nil, err
	}
	gateOutputs := values[numBlocks:]

	inL, notInLMinusM := splitSonsIndices(g.Sons, uint32(numBlocks))
	if len(notInLMinusM) != 0 {
		return nil, fmt.Errorf("protocol: first gate has a positive son, malformed circuit")
	}
	sonValues, err := evaluatedSons(g, gateOutputs, ctx.dataBlocks)
	if err != nil {
		return nil, err
	}

	currAcc, err := Hpre(values, numBlocks, 1)
	if err != nil {
		return nil, err
	}

	gates, err := encodedGates(c.Gates)
	if err != nil {
		return nil, err
	}
	proof1, err := accumulator.Prove(gates, []uint32{0})
	if err != nil {
		return nil, fmt.Errorf("protocol: proof1: %w", err)
	}
	proof2, err := accumulator.Prove(ctx.blocksWithIV, shiftUp(inL, 1))
	if err != nil {
		return nil, fmt.Errorf("protocol: proof2: %w", err)
	}
	proofExt, err := accumulator.ProveExt(gateOutputs[:1])
	if err != nil {
		return nil, fmt.Errorf("protocol: proof_ext: %w", err)
	}

	gateBytes, err := g.Encode()
	if err != nil {
		return nil, err
	}

	log.Debug().Msg("step 8b bundle built")

	return &ProofBundle{
		GateBytes: gateBytes[:],
		Values:    hexBytesSlice(sonValues),
		CurrAcc:   currAcc,
		Proof1:    proof1,
		Proof2:    proof2,
		Proof3:    accumulator.Proof{},
		ProofExt:  proofExt,
	}, nil
}

// BuildStep8c builds the terminal-round proof for the agreement-everywhere
// case i = num_gates + 1: the dispute collapses to proving the final gate's
// output in the trace.
func BuildStep8c(c *circuit.Compiled, values [][]byte) (accumulator.Proof, error) {
	numBlocks := int(c.NumBlocks)
	numGates := len(c.Gates)
	gateOutputs := values[numBlocks:]
	if len(gateOutputs) != numGates {
		return nil, fmt.Errorf("protocol: gate_outputs has %d values, want %d", len(gateOutputs), numGates)
	}
	if numGates == 0 {
		return nil, fmt.Errorf("protocol: circuit has no gates")
	}

	log.Debug().Int("num_gates", numGates).Msg("step 8c proof built")
	return accumulator.Prove(gateOutputs, []uint32{uint32(numGates - 1)})
}
