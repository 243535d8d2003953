package gf2

import (
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
)

// Invert computes the inverse of a square matrix over GF(2).
// It runs Gauss-Jordan elimination on the augmented matrix [A | I], swapping in a
// lower row whenever the pivot entry is 0. If some column has no nonzero pivot the
// matrix is singular and ErrSingularMatrix is returned.
func Invert(a mceliece.BinaryMatrix) (mceliece.BinaryMatrix, error) {
	if err := checkStorage(a); err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	if a.Rows != a.Cols {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: cannot invert %dx%d matrix",
			mceliece.ErrShapeMismatch, a.Rows, a.Cols)
	}

	n := a.Rows
	width := 2 * n
	aug := make([]uint8, n*width)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug[i*width+j] = a.Data[i*n+j] & 1
		}
		aug[i*width+n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if aug[r*width+col] == 1 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return mceliece.BinaryMatrix{}, fmt.Errorf("%w: no pivot in column %d", mceliece.ErrSingularMatrix, col)
		}
		swapRows(aug, width, col, pivot)

		pivotRow := aug[col*width : (col+1)*width]
		for r := 0; r < n; r++ {
			if r != col && aug[r*width+col] == 1 {
				xorInto(aug[r*width:(r+1)*width], pivotRow)
			}
		}
	}

	inv := zeros(n, n)
	for i := 0; i < n; i++ {
		copy(inv.Data[i*n:(i+1)*n], aug[i*width+n:(i+1)*width])
	}
	return inv, nil
}
