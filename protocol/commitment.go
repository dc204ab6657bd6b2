package protocol

import (
	"bytes"
	"fmt"

	"github.com/soxlabs/disputecore/primitives"
	"github.com/soxlabs/disputecore/types"
)

// Commitment binds a payload to a hash without revealing it: C is the
// commitment hash, O is the opening value (payload ‖ random nonce) that
// later proves what was committed to.
type Commitment struct {
	C types.HexBytes `json:"c"`
	O types.HexBytes `json:"o"`
}

// Commit hashes payload ‖ r under a fresh NonceSize-byte random r drawn from
// opts, returning both the commitment and its opening value.
func Commit(payload []byte, opts Options) (Commitment, error) {
	r, err := opts.randomBytes(NonceSize)
	if err != nil {
		return Commitment{}, fmt.Errorf("protocol: draw commitment nonce: %w", err)
	}
	opening := make([]byte, 0, len(payload)+NonceSize)
	opening = append(opening, payload...)
	opening = append(opening, r...)
	return Commitment{
		C: primitives.Keccak256(opening),
		O: opening,
	}, nil
}

// CommitHashes commits to hCircuit ‖ hCt, the shape precontract uses to bind
// a circuit root and a ciphertext root to a single commitment.
func CommitHashes(hCircuit, hCt []byte, opts Options) (Commitment, error) {
	payload := make([]byte, 0, len(hCircuit)+len(hCt))
	payload = append(payload, hCircuit...)
	payload = append(payload, hCt...)
	return Commit(payload, opts)
}

// OpenCommitment verifies that opening hashes to commitment and, if so,
// returns the committed payload (the opening value with its trailing
// NonceSize-byte nonce stripped).
func OpenCommitment(commitment, opening []byte) ([]byte, error) {
	if len(opening) < NonceSize {
		return nil, fmt.Errorf("protocol: opening value shorter than nonce (%d bytes)", len(opening))
	}
	if !bytes.Equal(commitment, primitives.Keccak256(opening)) {
		return nil, fmt.Errorf("protocol: commitment does not match opening value")
	}
	return opening[:len(opening)-NonceSize], nil
}
