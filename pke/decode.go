package pke

import (
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/core"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
)

// DecodeNearest returns the message x whose codeword x·G is closest in Hamming
// distance to received, together with that distance.
//
// All 2^k messages are enumerated in increasing order, where candidate x has bit i
// equal to (x >> i) & 1. Only a strictly smaller distance replaces the current best,
// so among equally close codewords the smallest x wins. The search stops early on an
// exact match.
func DecodeNearest(g mceliece.BinaryMatrix, received []uint8) ([]uint8, int, error) {
	if err := gf2.Validate(g); err != nil {
		return nil, 0, err
	}
	k, n := g.Rows, g.Cols
	if k < 1 || k > core.MaxExhaustiveK {
		return nil, 0, fmt.Errorf("%w: exhaustive decoding needs 1 <= k <= %d, got %d",
			mceliece.ErrInvalidParameters, core.MaxExhaustiveK, k)
	}
	if len(received) != n {
		return nil, 0, fmt.Errorf("%w: received word has %d bits, want %d",
			mceliece.ErrInvalidCiphertextLength, len(received), n)
	}
	if err := gf2.ValidateVector(received); err != nil {
		return nil, 0, err
	}

	total := uint64(1) << uint(k)
	logDecode("decode: k=%d n=%d candidates=%d", k, n, total)

	codeword := make([]uint8, n)
	bestX := uint64(0)
	bestDist := n + 1
	for x := uint64(0); x < total; x++ {
		for j := range codeword {
			codeword[j] = 0
		}
		for i := 0; i < k; i++ {
			if (x>>uint(i))&1 == 1 {
				xorInto(codeword, g.Row(i))
			}
		}
		dist := 0
		for j, b := range codeword {
			dist += int(b ^ received[j])
		}
		if dist < bestDist {
			bestDist = dist
			bestX = x
			if dist == 0 {
				break
			}
		}
	}

	logDecode("decode: best candidate %d at distance %d", bestX, bestDist)
	message := make([]uint8, k)
	for i := range message {
		message[i] = uint8((bestX >> uint(i)) & 1)
	}
	return message, bestDist, nil
}

// MinimumDistance returns the smallest Hamming weight of a nonzero codeword of the
// code generated by g. Codes with minimum distance d correct every error of weight
// t when 2t < d.
func MinimumDistance(g mceliece.BinaryMatrix) (int, error) {
	if err := gf2.Validate(g); err != nil {
		return 0, err
	}
	k, n := g.Rows, g.Cols
	if k < 1 || k > core.MaxExhaustiveK {
		return 0, fmt.Errorf("%w: exhaustive search needs 1 <= k <= %d, got %d",
			mceliece.ErrInvalidParameters, core.MaxExhaustiveK, k)
	}

	codeword := make([]uint8, n)
	best := n + 1
	for x := uint64(1); x < uint64(1)<<uint(k); x++ {
		for j := range codeword {
			codeword[j] = 0
		}
		for i := 0; i < k; i++ {
			if (x>>uint(i))&1 == 1 {
				xorInto(codeword, g.Row(i))
			}
		}
		if w := gf2.HammingWeight(codeword); w < best {
			best = w
		}
	}
	return best, nil
}

// CorrectionCapacity returns the largest t that exhaustive decoding of g is
// guaranteed to correct, floor((d-1)/2).
func CorrectionCapacity(g mceliece.BinaryMatrix) (int, error) {
	d, err := MinimumDistance(g)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, nil
	}
	return (d - 1) / 2, nil
}

func xorInto(dst, src []uint8) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
