package circuit

import (
	"encoding/json"

	"github.com/soxlabs/disputecore/gate"
)

// wire is the JSON-serializable shape of a Compiled circuit. gate.Gate
// already carries json tags for its opcode/sons/params (opcode and sons as
// numbers, params as 0x-prefixed hex), so this only needs to add the
// circuit-level metadata around it.
type wire struct {
	Version   uint32      `json:"version"`
	Gates     []gate.Gate `json:"gates"`
	BlockSize uint32      `json:"block_size"`
	NumBlocks uint32      `json:"num_blocks"`
}

// ToBytes serializes the circuit as JSON. No library in the retrieved
// pack exercises a msgpack-style binary codec directly (it shows up only
// as an indirect, never-imported transitive dependency), so this follows
// the teacher's own JSON/HexBytes convention instead of reaching for a
// library nothing in the pack actually uses.
func (c *Compiled) ToBytes() ([]byte, error) {
	w := wire{Version: c.Version, Gates: c.Gates, BlockSize: c.BlockSize, NumBlocks: c.NumBlocks}
	return json.Marshal(w)
}

// FromBytes is ToBytes's inverse.
func FromBytes(data []byte) (*Compiled, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &Compiled{Version: w.Version, Gates: w.Gates, BlockSize: w.BlockSize, NumBlocks: w.NumBlocks}, nil
}
