// Package sighash implements the hash used to fingerprint method
// signatures.
//
// Sum(data) is sha512/256(data). Method selectors on the wire are
// the first four bytes of this hash, so the algorithm is a protocol
// constant and must not change.
package sighash

import (
	"crypto/sha512"
	"hash"
)

// BlockSize is the block size of the hash in bytes.
const BlockSize = sha512.BlockSize

// Size is the size of a checksum in bytes.
const Size = sha512.Size256

// SelectorSize is the number of leading checksum bytes used as a
// method selector.
const SelectorSize = 4

// New returns a new hash.Hash computing the signature checksum.
func New() hash.Hash {
	return sha512.New512_256()
}

// Sum returns the checksum of the data.
func Sum(data []byte) [Size]byte {
	return sha512.Sum512_256(data)
}
