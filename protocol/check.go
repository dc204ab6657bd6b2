package protocol

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soxlabs/disputecore/accumulator"
	"github.com/soxlabs/disputecore/circuit"
	"github.com/soxlabs/disputecore/primitives"
)

// CheckResult is the buyer-side verdict of CheckPrecontract: a protocol
// outcome, never a panic, carrying enough of the recomputed state for the
// caller to proceed into a dispute if it disagrees.
type CheckResult struct {
	OK       bool
	Circuit  *circuit.Compiled
	HCt      []byte
	HCircuit []byte
}

// CheckPrecontract is the buyer side of the protocol: recompute the circuit
// and both accumulator roots from the received ct and the advertised
// description, then open commitment and assert its leading 64 bytes equal
// hCircuit' ‖ hCt'. A false OK (or an error) both mean "do not pay". Errors
// cover malformed input (bad ct, bad commitment shape) and a commitment
// whose opening value does not hash to it; a root mismatch is a false OK.
func CheckPrecontract(ct, description []byte, commitment Commitment) (CheckResult, error) {
	compiled, err := circuit.Compile(ct, description)
	if err != nil {
		return CheckResult{}, fmt.Errorf("protocol: recompile circuit: %w", err)
	}

	data := ct[IVSize:]
	ctBlocks := append([][]byte{ct[:IVSize]}, circuit.SplitBlocks(data)...)
	hCt, err := accumulator.AccFixed64(ctBlocks)
	if err != nil {
		return CheckResult{}, fmt.Errorf("protocol: accumulate ciphertext: %w", err)
	}
	hCircuit, err := accumulator.AccCircuit(compiled.Gates)
	if err != nil {
		return CheckResult{}, fmt.Errorf("protocol: accumulate circuit: %w", err)
	}

	payload, err := OpenCommitment(commitment.C, commitment.O)
	if err != nil {
		return CheckResult{}, fmt.Errorf("protocol: open commitment: %w", err)
	}
	if len(payload) != 64 {
		return CheckResult{}, fmt.Errorf("protocol: commitment payload is %d bytes, want 64", len(payload))
	}

	ok := bytes.Equal(payload[:32], hCircuit) && bytes.Equal(payload[32:64], hCt)
	log.Info().Bool("ok", ok).Int("num_gates", len(compiled.Gates)).Msg("precontract checked")

	return CheckResult{OK: ok, Circuit: compiled, HCt: hCt, HCircuit: hCircuit}, nil
}

// CheckDecryptedFile is the final step after a key is revealed: the
// decrypted file must hash to the description advertised at precontract
// time. A false return means the seller revealed the wrong key, not a
// malformed request, so it is a verdict, not an error.
func CheckDecryptedFile(file, description []byte) bool {
	got := primitives.SHA256(file)
	return bytes.Equal(got[:], description)
}
