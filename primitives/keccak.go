package primitives

import "github.com/ethereum/go-ethereum/crypto"

// Keccak256 is the hash function backing every Merkle node and the
// commitment scheme, matching the teacher's own use of
// crypto.Keccak256 for trie/receipt hashing.
func Keccak256(data ...[]byte) []byte {
	return crypto.Keccak256(data...)
}
