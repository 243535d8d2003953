// Package utils provides randomness, hashing and bounds-checking helpers.
// This file contains safe arithmetic and allocation helpers to prevent
// integer overflow and denial-of-service via large allocations.

package utils

import (
	"errors"
	"math"
)

// Maximum allowed lengths for various data types to prevent DoS via large allocations.
const (
	// MaxDimension is the maximum allowed number of rows or columns of a matrix.
	MaxDimension = 1 << 14 // 16K

	// MaxMatrixElements is the maximum allowed number of elements in a matrix.
	MaxMatrixElements = 1 << 26 // 64M bits

	// MaxBlockCount is the maximum allowed number of ciphertext blocks in one message.
	MaxBlockCount = 1 << 20

	// MaxPayloadLength is the maximum allowed payload length for serialized data.
	MaxPayloadLength = 1 << 28 // 256MB
)

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// SafeMultiply multiplies two non-negative integers and returns an error if overflow occurs.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidLength
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckMatrixShape validates a rows x cols shape against MaxDimension and
// MaxMatrixElements.
func CheckMatrixShape(rows, cols int) error {
	if err := CheckLength(rows, MaxDimension); err != nil {
		return err
	}
	if err := CheckLength(cols, MaxDimension); err != nil {
		return err
	}
	size, err := SafeMultiply(rows, cols)
	if err != nil {
		return err
	}
	return CheckLength(size, MaxMatrixElements)
}

// SafeReadLength reads a uint32 length from data at offset, validates it, and returns the value.
// Returns error if not enough bytes available or length exceeds maxAllowed.
func SafeReadLength(data []byte, offset, maxAllowed int) (length int, newOffset int, err error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, errors.New("truncated length field")
	}
	raw := uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
	if raw > uint32(maxAllowed) || (maxAllowed > math.MaxInt32 && int(raw) < 0) {
		return 0, offset, ErrExceedsLimit
	}
	return int(raw), offset + 4, nil
}

// ValidateSliceAccess checks that accessing data[offset:offset+size] is safe.
func ValidateSliceAccess(data []byte, offset, size int) error {
	if offset < 0 || size < 0 {
		return ErrInvalidLength
	}
	if offset+size < offset { // overflow check
		return ErrOverflow
	}
	if offset+size > len(data) {
		return errors.New("slice access out of bounds")
	}
	return nil
}
