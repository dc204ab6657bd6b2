package accumulator

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/soxlabs/disputecore/primitives"
)

// Proof is the per-layer sequence of sibling reveals produced by Prove:
// Proof[layer] holds, in descending sibling-index order, the hashes needed
// to reconstruct that layer's claimed nodes from the layer below.
type Proof [][][]byte

// Prove builds a multi-leaf membership proof for indices within values.
// Indices need not be sorted or unique on input.
func Prove(values [][]byte, indices []uint32) (Proof, error) {
	if len(values) < len(indices) {
		return nil, fmt.Errorf("accumulator: number of indices (%d) exceeds number of values (%d)", len(indices), len(values))
	}
	if len(indices) == 0 || len(values) == 0 {
		return nil, nil
	}

	a := append([]uint32(nil), indices...)
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	uniq := a[:0]
	for _, idx := range a {
		if len(uniq) == 0 || idx != uniq[len(uniq)-1] {
			uniq = append(uniq, idx)
		}
	}
	a = uniq

	currLayer := make([][]byte, len(values))
	for i, v := range values {
		currLayer[i] = HashLeaf(v)
	}

	var proof Proof
	for len(currLayer) > 1 {
		aSet := make(map[uint32]bool, len(a))
		for _, idx := range a {
			aSet[idx] = true
		}

		var b [][2]uint32
		var diff []uint32

		i := 0
		for i < len(a) {
			idx := a[i]
			neighbor := neighborIdx(idx)
			left, right := idx, neighbor
			if neighbor < idx {
				left, right = neighbor, idx
			}
			b = append(b, [2]uint32{left, right})

			if i < len(a)-1 && neighbor == a[i+1] {
				i++
			}
			if !aSet[neighbor] && neighbor < uint32(len(currLayer)) {
				diff = append(diff, neighbor)
			}
			i++
		}

		layer := make([][]byte, len(diff))
		for k := range diff {
			layer[len(diff)-1-k] = currLayer[diff[k]]
		}
		proof = append(proof, layer)

		currLayer = computeNextLayer(currLayer)
		next := make([]uint32, len(b))
		for k, p := range b {
			next[k] = p[0] >> 1
		}
		a = next
	}
	return proof, nil
}

// ProveExt builds the extension proof for the last index of values: the
// proof that an accumulator over values extends the accumulator over
// values[:len(values)-1] by exactly one appended leaf.
func ProveExt(values [][]byte) (Proof, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return Prove(values, []uint32{uint32(len(values) - 1)})
}

func neighborIdx(i uint32) uint32 {
	if i%2 == 0 {
		return i + 1
	}
	return i - 1
}

// VerifyProof checks that values, at the given indices, are consistent
// with root under a tree of numLeaves total leaves. numLeaves must be
// supplied out-of-band: the "promote odd" layout means the root alone
// does not determine the leaf count.
func VerifyProof(root []byte, numLeaves int, indices []uint32, values [][]byte, proof Proof) (bool, error) {
	if len(indices) != len(values) {
		return false, fmt.Errorf("accumulator: indices/values length mismatch (%d vs %d)", len(indices), len(values))
	}
	if numLeaves == 0 {
		return len(root) == 0 && len(indices) == 0, nil
	}
	if len(indices) == 0 {
		return false, fmt.Errorf("accumulator: no claimed indices")
	}

	known := make(map[uint32][]byte, len(indices))
	for k, idx := range indices {
		if int(idx) >= numLeaves {
			return false, fmt.Errorf("accumulator: index %d out of bounds (numLeaves=%d)", idx, numLeaves)
		}
		known[idx] = HashLeaf(values[k])
	}

	if numLeaves == 1 {
		v, ok := known[0]
		return ok && bytes.Equal(v, root), nil
	}

	layerLen := numLeaves
	proofIdx := 0
	for layerLen > 1 {
		var layerProof [][]byte
		if proofIdx < len(proof) {
			layerProof = proof[proofIdx]
		}
		next, err := verifyLayer(known, layerProof, layerLen)
		if err != nil {
			return false, fmt.Errorf("accumulator: layer %d: %w", proofIdx, err)
		}
		known = next
		layerLen = (layerLen + 1) / 2
		proofIdx++
	}

	if len(known) != 1 {
		return false, fmt.Errorf("accumulator: proof did not converge to a single root")
	}
	var final []byte
	for _, v := range known {
		final = v
	}
	return bytes.Equal(final, root), nil
}

// verifyLayer replays Prove's per-layer pairing algorithm, substituting
// popped proof entries for siblings the caller hasn't claimed, and returns
// the known values one layer up.
func verifyLayer(known map[uint32][]byte, proofLayer [][]byte, layerLen int) (map[uint32][]byte, error) {
	a := make([]uint32, 0, len(known))
	for idx := range known {
		a = append(a, idx)
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })

	// proofLayer is stored in descending sibling-index order (see Prove);
	// consuming it in ascending order matches the order groups are visited
	// below.
	rev := make([][]byte, len(proofLayer))
	for i, v := range proofLayer {
		rev[len(proofLayer)-1-i] = v
	}
	pr := 0

	next := make(map[uint32][]byte)
	i := 0
	for i < len(a) {
		idx := a[i]
		neighbor := neighborIdx(idx)
		left, right := idx, neighbor
		if neighbor < idx {
			left, right = neighbor, idx
		}
		pairedInA := i < len(a)-1 && a[i+1] == neighbor

		fetch := func(target uint32) ([]byte, error) {
			if target == idx {
				return known[idx], nil
			}
			if pairedInA && target == neighbor {
				return known[neighbor], nil
			}
			if pr >= len(rev) {
				return nil, fmt.Errorf("proof layer exhausted")
			}
			v := rev[pr]
			pr++
			return v, nil
		}

		var parent []byte
		if right >= uint32(layerLen) {
			parent = known[idx]
		} else {
			l, err := fetch(left)
			if err != nil {
				return nil, err
			}
			r, err := fetch(right)
			if err != nil {
				return nil, err
			}
			parent = primitives.Keccak256(l, r)
		}
		next[left>>1] = parent

		if pairedInA {
			i += 2
		} else {
			i++
		}
	}
	return next, nil
}

// VerifyExt checks an extension proof: that currRoot (over numLeaves
// leaves, the last being lastValue) is consistent with the multi-leaf
// proof at index numLeaves-1, and that the same proof's revealed siblings
// independently fold into prevRoot, the root of the sequence with the
// last leaf removed.
func VerifyExt(prevRoot, currRoot []byte, numLeaves int, lastValue []byte, proof Proof) (bool, error) {
	if numLeaves == 0 {
		return false, fmt.Errorf("accumulator: extension proof requires at least one leaf")
	}
	lastIdx := uint32(numLeaves - 1)

	ok, err := VerifyProof(currRoot, numLeaves, []uint32{lastIdx}, [][]byte{lastValue}, proof)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	// Every layer's proof entry (0 or 1 of them, since there is a single
	// claimed index) sits to the left of the climbing path, because the
	// claimed index is always the maximum at its layer. Folding them
	// bottom-up with each new entry on the left reconstructs the root of
	// the one-shorter sequence without ever touching lastValue.
	var acc []byte
	for _, layer := range proof {
		if len(layer) == 0 {
			continue
		}
		if len(layer) != 1 {
			return false, fmt.Errorf("accumulator: extension proof layer has %d entries, want 0 or 1", len(layer))
		}
		entry := layer[0]
		if acc == nil {
			acc = entry
		} else {
			acc = primitives.Keccak256(entry, acc)
		}
	}

	return bytes.Equal(acc, prevRoot), nil
}
