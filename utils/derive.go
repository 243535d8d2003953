package utils

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// DeriveSeed expands master into a length-byte subkey bound to info using
// HKDF-SHA3-256.
func DeriveSeed(master, info []byte, length int) ([]byte, error) {
	reader := hkdf.New(sha3.New256, master, nil, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("failed to derive seed: %w", err)
	}
	return out, nil
}

// DeriveIndexedSeed derives the seed of the index-th item in a sequence, e.g. one
// block of a multi-block message.
func DeriveIndexedSeed(master []byte, label string, index int, length int) ([]byte, error) {
	info := make([]byte, len(label)+8)
	copy(info, label)
	binary.LittleEndian.PutUint64(info[len(label):], uint64(index))
	return DeriveSeed(master, info, length)
}
