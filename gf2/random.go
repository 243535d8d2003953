package gf2

import (
	"fmt"
	"io"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

// MaxSampleAttempts bounds every rejection-sampling loop in this package.
// A uniform k x n binary matrix with k <= n has full rank with probability above
// 0.288, so exhausting this budget with a healthy random source has probability
// below 2^-125. Hitting it almost certainly means the source is broken.
const MaxSampleAttempts = 256

// RandomMatrix samples a uniformly random rows x cols binary matrix from r.
func RandomMatrix(r io.Reader, rows, cols int) (mceliece.BinaryMatrix, error) {
	if err := utils.CheckMatrixShape(rows, cols); err != nil {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: %dx%d: %v", mceliece.ErrInvalidDimensions, rows, cols, err)
	}
	bits, err := utils.RandomBits(r, rows*cols)
	if err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	return mceliece.BinaryMatrix{Rows: rows, Cols: cols, Data: bits}, nil
}

// RandomFullRank samples uniformly random rows x cols matrices until one has rank
// equal to rows. It requires 1 <= rows <= cols.
func RandomFullRank(r io.Reader, rows, cols int) (mceliece.BinaryMatrix, error) {
	if rows < 1 || rows > cols {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: full-rank %dx%d matrix requires 1 <= rows <= cols",
			mceliece.ErrInvalidDimensions, rows, cols)
	}
	return sampleUntilRank(r, rows, cols)
}

// RandomInvertible samples uniformly random size x size matrices until one is
// invertible over GF(2).
func RandomInvertible(r io.Reader, size int) (mceliece.BinaryMatrix, error) {
	if size < 1 {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: invertible matrix of size %d", mceliece.ErrInvalidDimensions, size)
	}
	return sampleUntilRank(r, size, size)
}

func sampleUntilRank(r io.Reader, rows, cols int) (mceliece.BinaryMatrix, error) {
	for attempt := 0; attempt < MaxSampleAttempts; attempt++ {
		m, err := RandomMatrix(r, rows, cols)
		if err != nil {
			return mceliece.BinaryMatrix{}, err
		}
		if Rank(m) == rows {
			return m, nil
		}
	}
	return mceliece.BinaryMatrix{}, fmt.Errorf("%w: no rank-%d %dx%d matrix after %d draws",
		mceliece.ErrRetryBudgetExceeded, rows, rows, cols, MaxSampleAttempts)
}

// RandomPermutation samples a uniformly random permutation of {0..size-1} and
// returns it as a size x size matrix with a single 1 in every row and column.
// Row i has its 1 in column perm[i].
func RandomPermutation(r io.Reader, size int) (mceliece.BinaryMatrix, error) {
	if size < 1 {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: permutation of size %d", mceliece.ErrInvalidDimensions, size)
	}
	if err := utils.CheckMatrixShape(size, size); err != nil {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: %dx%d: %v", mceliece.ErrInvalidDimensions, size, size, err)
	}
	perm, err := utils.Permutation(r, size)
	if err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	return PermutationMatrix(perm)
}

// PermutationMatrix materializes perm as a matrix whose row i has its 1 in
// column perm[i].
func PermutationMatrix(perm []int) (mceliece.BinaryMatrix, error) {
	n := len(perm)
	m := zeros(n, n)
	seen := make([]bool, n)
	for i, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return mceliece.BinaryMatrix{}, fmt.Errorf("%w: %v is not a permutation", mceliece.ErrInvalidDimensions, perm)
		}
		seen[p] = true
		m.Data[i*n+p] = 1
	}
	return m, nil
}
