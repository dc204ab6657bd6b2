// Package verifier encodes and decodes the artifacts an external checker
// needs at the terminal round of a dispute: the challenged gate, its
// materialised sons, the accumulator it extends, and the Merkle proofs tying
// all of that back to the two committed roots. It is the wire boundary
// between this module and whatever runs the actual bisection — a contract,
// a standalone checker process, or a test harness — none of which are built
// here.
package verifier

import (
	"encoding/json"
	"fmt"

	"github.com/soxlabs/disputecore/protocol"
	"github.com/soxlabs/disputecore/types"
)

// Bundle is a self-contained, hex/JSON-encodable export of a terminal-round
// proof: the two roots it must be checked against, the 1-indexed challenge
// point, and the proof bundle itself.
type Bundle struct {
	HCircuit  types.HexBytes         `json:"h_circuit"`
	HCt       types.HexBytes         `json:"h_ct"`
	NumBlocks uint32                 `json:"num_blocks"`
	NumGates  uint32                 `json:"num_gates"`
	Challenge int                    `json:"challenge"`
	Proof     *protocol.ProofBundle  `json:"proof"`
}

// EncodeBundle serializes b as indented JSON. The roots, gate bytes, son
// values and current accumulator render as 0x-prefixed hex strings via
// types.HexBytes; the Merkle proofs (accumulator.Proof) are not HexBytes and
// render in encoding/json's default base64 form.
func EncodeBundle(b Bundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("verifier: encode bundle: %w", err)
	}
	return data, nil
}

// DecodeBundle is EncodeBundle's inverse.
func DecodeBundle(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("verifier: decode bundle: %w", err)
	}
	return b, nil
}
