// Package gf2 implements dense matrix arithmetic over the two-element field GF(2).
// Addition is XOR and multiplication is AND; every operation returns a new matrix
// and leaves its operands untouched.
package gf2

import (
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

// zeros allocates a rows x cols zero matrix without validating the shape.
func zeros(rows, cols int) mceliece.BinaryMatrix {
	return mceliece.BinaryMatrix{Rows: rows, Cols: cols, Data: make([]uint8, rows*cols)}
}

// New returns a rows x cols zero matrix.
func New(rows, cols int) (mceliece.BinaryMatrix, error) {
	if err := utils.CheckMatrixShape(rows, cols); err != nil {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: %dx%d: %v", mceliece.ErrInvalidDimensions, rows, cols, err)
	}
	return zeros(rows, cols), nil
}

// Identity returns the size x size identity matrix.
func Identity(size int) mceliece.BinaryMatrix {
	m := zeros(size, size)
	for i := 0; i < size; i++ {
		m.Data[i*size+i] = 1
	}
	return m
}

// FromRows builds a matrix from a rectangular slice of rows.
// Every entry must be 0 or 1.
func FromRows(rows [][]uint8) (mceliece.BinaryMatrix, error) {
	if len(rows) == 0 {
		return mceliece.BinaryMatrix{}, nil
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return mceliece.BinaryMatrix{}, fmt.Errorf("%w: row %d has %d entries, want %d",
				mceliece.ErrInvalidDimensions, i, len(row), cols)
		}
		for j, v := range row {
			if v > 1 {
				return mceliece.BinaryMatrix{}, fmt.Errorf("%w: entry (%d,%d) = %d", mceliece.ErrInvalidSymbol, i, j, v)
			}
		}
		copy(m.Data[i*cols:], row)
	}
	return m, nil
}

// RowVector returns v as a 1 x len(v) matrix. The data is copied.
func RowVector(v []uint8) mceliece.BinaryMatrix {
	m := zeros(1, len(v))
	copy(m.Data, v)
	return m
}

// Clone returns a deep copy of m.
func Clone(m mceliece.BinaryMatrix) mceliece.BinaryMatrix {
	out := zeros(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// Validate checks that m is well formed: its storage matches its shape and every
// entry is 0 or 1.
func Validate(m mceliece.BinaryMatrix) error {
	if err := checkStorage(m); err != nil {
		return err
	}
	return ValidateVector(m.Data)
}

// ValidateVector checks that every entry of v is 0 or 1.
func ValidateVector(v []uint8) error {
	for i, b := range v {
		if b > 1 {
			return fmt.Errorf("%w: entry %d = %d", mceliece.ErrInvalidSymbol, i, b)
		}
	}
	return nil
}

func checkStorage(m mceliece.BinaryMatrix) error {
	if m.Rows < 0 || m.Cols < 0 || len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("%w: %dx%d matrix backed by %d entries",
			mceliece.ErrInvalidDimensions, m.Rows, m.Cols, len(m.Data))
	}
	return nil
}

// Multiply computes the product a * b over GF(2).
func Multiply(a, b mceliece.BinaryMatrix) (mceliece.BinaryMatrix, error) {
	if err := checkStorage(a); err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	if err := checkStorage(b); err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	if a.Cols != b.Rows {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: multiplying %dx%d by %dx%d",
			mceliece.ErrShapeMismatch, a.Rows, a.Cols, b.Rows, b.Cols)
	}

	out := zeros(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		dst := out.Data[i*b.Cols : (i+1)*b.Cols]
		for l := 0; l < a.Cols; l++ {
			if a.Data[i*a.Cols+l]&1 == 0 {
				continue
			}
			src := b.Data[l*b.Cols : (l+1)*b.Cols]
			for j := range dst {
				dst[j] ^= src[j] & 1
			}
		}
	}
	return out, nil
}

// VecMul computes the row-vector product v * m over GF(2).
func VecMul(v []uint8, m mceliece.BinaryMatrix) ([]uint8, error) {
	out, err := Multiply(RowVector(v), m)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Add computes the elementwise sum a + b over GF(2).
func Add(a, b mceliece.BinaryMatrix) (mceliece.BinaryMatrix, error) {
	if err := checkStorage(a); err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	if err := checkStorage(b); err != nil {
		return mceliece.BinaryMatrix{}, err
	}
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return mceliece.BinaryMatrix{}, fmt.Errorf("%w: adding %dx%d to %dx%d",
			mceliece.ErrShapeMismatch, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out := zeros(a.Rows, a.Cols)
	for i := range out.Data {
		out.Data[i] = (a.Data[i] ^ b.Data[i]) & 1
	}
	return out, nil
}

// Transpose returns the transpose of m.
func Transpose(m mceliece.BinaryMatrix) mceliece.BinaryMatrix {
	out := zeros(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Data[j*m.Rows+i] = m.Data[i*m.Cols+j]
		}
	}
	return out
}

// Rank returns the rank of m over GF(2).
// The matrix is row reduced with XOR row operations, pivoting on any nonzero entry
// in the current column; the rank is the number of pivot rows found.
// A malformed matrix has rank 0.
func Rank(m mceliece.BinaryMatrix) int {
	if checkStorage(m) != nil {
		return 0
	}
	work := Clone(m)
	rows, cols := work.Rows, work.Cols
	row := 0
	for col := 0; col < cols && row < rows; col++ {
		pivot := -1
		for r := row; r < rows; r++ {
			if work.Data[r*cols+col] == 1 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		swapRows(work.Data, cols, row, pivot)
		pivotRow := work.Data[row*cols : (row+1)*cols]
		for r := row + 1; r < rows; r++ {
			if work.Data[r*cols+col] == 1 {
				xorInto(work.Data[r*cols:(r+1)*cols], pivotRow)
			}
		}
		row++
	}
	return row
}

// Equal reports whether a and b have the same shape and entries.
func Equal(a, b mceliece.BinaryMatrix) bool {
	if a.Rows != b.Rows || a.Cols != b.Cols || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

// IsPermutation reports whether m is a square matrix with exactly one 1 in every
// row and every column.
func IsPermutation(m mceliece.BinaryMatrix) bool {
	if m.Rows != m.Cols || checkStorage(m) != nil {
		return false
	}
	colSeen := make([]bool, m.Cols)
	for i := 0; i < m.Rows; i++ {
		ones := 0
		for j := 0; j < m.Cols; j++ {
			switch m.Data[i*m.Cols+j] {
			case 0:
			case 1:
				ones++
				if colSeen[j] {
					return false
				}
				colSeen[j] = true
			default:
				return false
			}
		}
		if ones != 1 {
			return false
		}
	}
	return true
}

// HammingWeight returns the number of ones in v.
func HammingWeight(v []uint8) int {
	w := 0
	for _, b := range v {
		w += int(b & 1)
	}
	return w
}

// HammingDistance returns the number of positions in which a and b differ.
func HammingDistance(a, b []uint8) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vectors of length %d and %d", mceliece.ErrShapeMismatch, len(a), len(b))
	}
	d := 0
	for i := range a {
		d += int((a[i] ^ b[i]) & 1)
	}
	return d, nil
}

func swapRows(data []uint8, width, i, j int) {
	if i == j {
		return
	}
	ri := data[i*width : (i+1)*width]
	rj := data[j*width : (j+1)*width]
	for c := range ri {
		ri[c], rj[c] = rj[c], ri[c]
	}
}

func xorInto(dst, src []uint8) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
