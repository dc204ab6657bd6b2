// Package types holds the data shared across every component of the dispute
// core: the uniform 64-byte block, hex/JSON byte plumbing for wire-visible
// values (roots, commitments, gate encodings), and the block-count pair that
// must always travel alongside an accumulator root (spec.md §9, "promote odd").
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// BlockSize is the uniform data unit flowing through every gate (spec.md §3).
const BlockSize = 64

// HexToBytes decodes a hex string, tolerating an optional "0x" prefix.
func HexToBytes(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	return hex.DecodeString(hexStr)
}

// HexBytes is a byte slice that marshals to/from JSON as a 0x-prefixed hex
// string, used for every wire-visible value: roots, commitments, gate bytes.
type HexBytes []byte

func (b HexBytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	s := "0x" + hex.EncodeToString(b)
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	out = append(out, s...)
	out = append(out, '"')
	return out, nil
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hex string: %s", data)
	}
	val := string(data[1 : len(data)-1])
	val = strings.TrimPrefix(val, "0x")
	bz, err := hex.DecodeString(val)
	if err != nil {
		return fmt.Errorf("decode hex bytes: %w", err)
	}
	*b = bz
	return nil
}

// Block64 zero-pads a value to BlockSize bytes, or truncates it, per the
// "shorter values are right-zero-padded; longer values truncated" rule of
// spec.md §3.
func Block64(v []byte) [BlockSize]byte {
	var out [BlockSize]byte
	if len(v) >= BlockSize {
		copy(out[:], v[:BlockSize])
	} else {
		copy(out[:], v)
	}
	return out
}

// Counts carries the leaf-count metadata that must always travel alongside
// an accumulator root. The tree's "promote odd" layout (spec.md §4.2) means
// the root alone does not determine the leaf count, so every consumer of a
// root is handed the count out-of-band instead of inferring it.
type Counts struct {
	NumBlocks uint32 `json:"num_blocks"`
	NumGates  uint32 `json:"num_gates"`
}
