package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"runtime"
)

// RandReader is the default random source used by convenience wrappers that do not
// take an explicit reader.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes from RandReader.
func SecureRandomBytes(n int) ([]byte, error) {
	return ReadBytes(RandReader, n)
}

// ReadBytes reads exactly n bytes from r.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return buf, nil
}

// RandomInt draws an integer in [0, max) from r.
// It uses rejection sampling to ensure a uniform distribution.
func RandomInt(r io.Reader, max int) (int, error) {
	if max <= 0 {
		return 0, errors.New("max must be positive")
	}
	if max == 1 {
		return 0, nil
	}

	// Calculate number of bytes needed
	bitsNeeded := 0
	for m := max - 1; m > 0; m >>= 1 {
		bitsNeeded++
	}
	bytesNeeded := (bitsNeeded + 7) / 8
	mask := (1 << bitsNeeded) - 1

	buf := make([]byte, bytesNeeded)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, fmt.Errorf("reading random bytes: %w", err)
		}

		var value int
		for i := 0; i < bytesNeeded; i++ {
			value = (value << 8) | int(buf[i])
		}
		value &= mask

		if value < max {
			return value, nil
		}
	}
}

// RandomBits draws count independent uniform bits from r.
// Each returned entry is 0 or 1.
func RandomBits(r io.Reader, count int) ([]uint8, error) {
	if count < 0 {
		return nil, ErrInvalidLength
	}
	raw, err := ReadBytes(r, (count+7)/8)
	if err != nil {
		return nil, err
	}
	bits := make([]uint8, count)
	for i := range bits {
		bits[i] = (raw[i/8] >> (i % 8)) & 1
	}
	return bits, nil
}

// Permutation returns a uniformly random permutation of {0, ..., n-1}.
// It is a Fisher-Yates shuffle driven by RandomInt.
func Permutation(r io.Reader, n int) ([]int, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := RandomInt(r, i+1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// SampleSubset returns t distinct positions drawn uniformly from {0, ..., n-1}.
// Only the first t steps of a Fisher-Yates shuffle are performed.
func SampleSubset(r io.Reader, n, t int) ([]int, error) {
	if n < 0 || t < 0 || t > n {
		return nil, fmt.Errorf("cannot sample %d positions out of %d: %w", t, n, ErrInvalidLength)
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < t; i++ {
		j, err := RandomInt(r, n-i)
		if err != nil {
			return nil, err
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}
	return pool[:t], nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 32 {
		return errors.New("seed must be at least 32 bytes")
	}

	// Check for all bytes identical
	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	// Check for sequential patterns
	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	return nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// It returns true if the slices are equal, false otherwise.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeBits overwrites a bit vector with zeros.
func ZeroizeBits(s []uint8) {
	for i := range s {
		s[i] = 0
	}
	runtime.KeepAlive(s)
}
