// Package eid implements the Eddystone-EID identifier pipeline: deriving the
// per-epoch temporary key from a beacon's identity key, deriving the 8-byte
// rotating identifier from that temporary key, and the sliding window of
// plausible identifiers a receiver searches against.
package eid

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"
)

// IdentityKeySize is the length in bytes of a beacon's identity key.
const IdentityKeySize = 16

// TempKeySize is the length in bytes of a derived temporary key.
const TempKeySize = 16

// IdentityKey is a beacon's per-device AES-128 secret, immutable for the
// lifetime of a tracker.
type IdentityKey [IdentityKeySize]byte

// UpperCount returns the upper 16 bits of a 32-bit counter, selecting the
// temporary-key epoch.
func UpperCount(counter uint32) uint16 {
	return uint16(counter >> 16)
}

// DeriveTempKey derives the 16-byte temporary key for the epoch identified
// by upperCount. The ECB plaintext block is 11 zero bytes, one 0xFF byte,
// two zero bytes, then upperCount big-endian.
func DeriveTempKey(identityKey IdentityKey, upperCount uint16) (key [TempKeySize]byte, err error) {
	block, err := aes.NewCipher(identityKey[:])
	if err != nil {
		return key, fmt.Errorf("eid: create identity cipher: %w", err)
	}

	var plaintext [16]byte
	plaintext[11] = 0xFF
	binary.BigEndian.PutUint16(plaintext[14:16], upperCount)

	block.Encrypt(key[:], plaintext[:])
	return key, nil
}
