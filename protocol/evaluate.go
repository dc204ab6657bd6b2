package protocol

import (
	"github.com/rs/zerolog/log"

	"github.com/soxlabs/disputecore/circuit"
)

// EvaluateCircuit runs a compiled circuit against ct under the revealed key,
// the protocol-level entry point either party calls once a key is on the
// table. It is a thin wrapper over circuit.Evaluate: the trace it returns is
// what Hpre and the step-8 builders slice into proof bundles.
func EvaluateCircuit(c *circuit.Compiled, ct, key []byte) (*circuit.Evaluated, error) {
	evaluated, err := circuit.Evaluate(c, ct, key)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Uint32("num_blocks", evaluated.NumBlocks).
		Int("num_values", len(evaluated.Values)).
		Msg("circuit evaluated")
	return evaluated, nil
}
