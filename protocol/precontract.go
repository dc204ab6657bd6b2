package protocol

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soxlabs/disputecore/accumulator"
	"github.com/soxlabs/disputecore/circuit"
	"github.com/soxlabs/disputecore/primitives"
	"github.com/soxlabs/disputecore/types"
)

// Precontract is everything created once, up front, and thereafter treated
// as immutable: the ciphertext, its plaintext digest, the compiled circuit,
// both accumulator roots, and the commitment binding them together.
type Precontract struct {
	Ct          types.HexBytes    `json:"ct"`
	Description types.HexBytes    `json:"description"`
	Circuit     *circuit.Compiled `json:"circuit"`
	HCt         types.HexBytes    `json:"h_ct"`
	HCircuit    types.HexBytes    `json:"h_circuit"`
	Commitment  Commitment        `json:"commitment"`
	NumBlocks   uint32            `json:"num_blocks"`
	NumGates    uint32            `json:"num_gates"`
}

// ComputePrecontract runs the seller side of the protocol: encrypt file
// under key behind a fresh IV, compile the fixed-point circuit over the
// ciphertext and the plaintext's digest, accumulate both the ciphertext and
// the circuit, and commit to the pair of roots.
func ComputePrecontract(file, key []byte, opts Options) (*Precontract, error) {
	iv, err := opts.randomBytes(IVSize)
	if err != nil {
		return nil, fmt.Errorf("protocol: draw IV: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("protocol: %w", err)
	}
	ciphertext := make([]byte, len(file))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, file)

	ct := make([]byte, 0, IVSize+len(ciphertext))
	ct = append(ct, iv...)
	ct = append(ct, ciphertext...)

	description := primitives.SHA256(file)

	compiled, err := circuit.Compile(ct, description[:])
	if err != nil {
		return nil, fmt.Errorf("protocol: compile circuit: %w", err)
	}

	ctBlocks := append([][]byte{iv}, circuit.SplitBlocks(ciphertext)...)
	hCt, err := accumulator.AccFixed64(ctBlocks)
	if err != nil {
		return nil, fmt.Errorf("protocol: accumulate ciphertext: %w", err)
	}
	hCircuit, err := accumulator.AccCircuit(compiled.Gates)
	if err != nil {
		return nil, fmt.Errorf("protocol: accumulate circuit: %w", err)
	}

	commitment, err := CommitHashes(hCircuit, hCt, opts)
	if err != nil {
		return nil, fmt.Errorf("protocol: commit: %w", err)
	}

	log.Info().
		Int("file_bytes", len(file)).
		Uint32("num_blocks", compiled.NumBlocks).
		Int("num_gates", len(compiled.Gates)).
		Msg("precontract computed")

	return &Precontract{
		Ct:          ct,
		Description: description[:],
		Circuit:     compiled,
		HCt:         hCt,
		HCircuit:    hCircuit,
		Commitment:  commitment,
		NumBlocks:   compiled.NumBlocks,
		NumGates:    uint32(len(compiled.Gates)),
	}, nil
}
