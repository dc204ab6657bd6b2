// Package accumulator implements the Keccak-256 Merkle tree used to bind
// both a ciphertext and a compiled circuit to a single root: pair-hash
// adjacent leaves in index order, promote an odd trailing node unchanged.
//
// The tree's "promote odd" layout means the root alone does not determine
// the leaf count: [a,b,c,d] and [a,b,Hc||Hd], where Hc and Hd are the leaf
// hashes of c and d, produce the same root.
// Every consumer of a root is expected to carry the leaf count alongside it
// (types.Counts) rather than infer it from the tree.
package accumulator

import (
	"golang.org/x/sync/errgroup"

	"github.com/soxlabs/disputecore/gate"
	"github.com/soxlabs/disputecore/primitives"
	"github.com/soxlabs/disputecore/types"
)

// HashLeaf normalizes v to a 64-byte block and returns its Keccak256 hash,
// the tree's uniform leaf-hashing step.
func HashLeaf(v []byte) []byte {
	b := types.Block64(v)
	return primitives.Keccak256(b[:])
}

// Acc computes the Merkle root over values, treating each as a leaf after
// Block64 normalization. Returns nil for an empty sequence: the spec's
// sentinel "root of the empty sequence".
func Acc(values [][]byte) []byte {
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		return HashLeaf(values[0])
	}
	hashes := make([][]byte, len(values))
	for i, v := range values {
		hashes[i] = HashLeaf(v)
	}
	layer := hashes
	for len(layer) > 1 {
		layer = computeNextLayer(layer)
	}
	return layer[0]
}

// computeNextLayer pairs adjacent nodes and hashes their concatenation,
// promoting an odd trailing node unchanged. Sequential: used by the
// non-fixed-width Acc path, where leaves are not already known to be
// uniform 64-byte blocks worth parallelizing.
func computeNextLayer(layer [][]byte) [][]byte {
	n := (len(layer) + 1) / 2
	next := make([][]byte, n)
	for i, out := 0, 0; i < len(layer); i, out = i+2, out+1 {
		if i+1 < len(layer) {
			next[out] = primitives.Keccak256(layer[i], layer[i+1])
		} else {
			next[out] = layer[i]
		}
	}
	return next
}

// AccFixed64 is the optimized accumulator for leaves that are all already
// 64-byte blocks (ciphertext blocks, encoded gates): leaf hashing and every
// tree layer are computed with index-ordered parallel workers so the root
// is byte-identical regardless of worker count (spec.md §5).
func AccFixed64(values [][]byte) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) == 1 {
		return HashLeaf(values[0]), nil
	}

	layer := make([][]byte, len(values))
	g := new(errgroup.Group)
	for i := range values {
		i := i
		g.Go(func() error {
			layer[i] = HashLeaf(values[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for len(layer) > 1 {
		next, err := hashLayerParallel(layer)
		if err != nil {
			return nil, err
		}
		layer = next
	}
	return layer[0], nil
}

// AccCircuit accumulates a compiled circuit's gates directly: each gate is
// encoded into its 64-byte form and hashed without ever materializing the
// full encoded-gate slice, mirroring the teacher's "avoid intermediate
// storage" optimization for the gate accumulator.
func AccCircuit(gates []gate.Gate) ([]byte, error) {
	if len(gates) == 0 {
		return nil, nil
	}
	if len(gates) == 1 {
		enc, err := gates[0].Encode()
		if err != nil {
			return nil, err
		}
		return primitives.Keccak256(enc[:]), nil
	}

	hashes := make([][]byte, len(gates))
	g := new(errgroup.Group)
	for i := range gates {
		i := i
		g.Go(func() error {
			var buf [64]byte
			if err := gates[i].EncodeInto(&buf); err != nil {
				return err
			}
			hashes[i] = primitives.Keccak256(buf[:])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	layer := hashes
	for len(layer) > 1 {
		next, err := hashLayerParallel(layer)
		if err != nil {
			return nil, err
		}
		layer = next
	}
	return layer[0], nil
}

func hashLayerParallel(layer [][]byte) ([][]byte, error) {
	n := (len(layer) + 1) / 2
	next := make([][]byte, n)
	g := new(errgroup.Group)
	for i, out := 0, 0; i < len(layer); i, out = i+2, out+1 {
		i, out := i, out
		g.Go(func() error {
			if i+1 < len(layer) {
				next[out] = primitives.Keccak256(layer[i], layer[i+1])
			} else {
				next[out] = layer[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}
