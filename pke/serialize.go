package pke

import (
	"encoding/binary"
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

// Bits are packed row-major, least significant bit first within each byte.
func packBits(bits []uint8) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		out[i/8] |= (b & 1) << uint(i%8)
	}
	return out
}

func unpackBits(data []byte, count int) []uint8 {
	out := make([]uint8, count)
	for i := range out {
		out[i] = (data[i/8] >> uint(i%8)) & 1
	}
	return out
}

func appendUint32(buf []byte, v int) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

// SerializeMatrix encodes m as rows | cols | packed bits.
func SerializeMatrix(m mceliece.BinaryMatrix) []byte {
	packed := packBits(m.Data)
	result := make([]byte, 0, 8+len(packed))
	result = appendUint32(result, m.Rows)
	result = appendUint32(result, m.Cols)
	return append(result, packed...)
}

// DeserializeMatrix decodes a matrix starting at offset and returns the offset just
// past it.
func DeserializeMatrix(data []byte, offset int) (mceliece.BinaryMatrix, int, error) {
	rows, offset, err := utils.SafeReadLength(data, offset, utils.MaxDimension)
	if err != nil {
		return mceliece.BinaryMatrix{}, offset, fmt.Errorf("%w: matrix rows: %v", mceliece.ErrMalformedData, err)
	}
	cols, offset, err := utils.SafeReadLength(data, offset, utils.MaxDimension)
	if err != nil {
		return mceliece.BinaryMatrix{}, offset, fmt.Errorf("%w: matrix cols: %v", mceliece.ErrMalformedData, err)
	}
	if err := utils.CheckMatrixShape(rows, cols); err != nil {
		return mceliece.BinaryMatrix{}, offset, fmt.Errorf("%w: %dx%d matrix: %v", mceliece.ErrMalformedData, rows, cols, err)
	}
	size := (rows*cols + 7) / 8
	if err := utils.ValidateSliceAccess(data, offset, size); err != nil {
		return mceliece.BinaryMatrix{}, offset, fmt.Errorf("%w: matrix data: %v", mceliece.ErrMalformedData, err)
	}
	m := mceliece.BinaryMatrix{Rows: rows, Cols: cols, Data: unpackBits(data[offset:offset+size], rows*cols)}
	return m, offset + size, nil
}

// SerializePublicKey encodes a public key as t | Ĝ.
func SerializePublicKey(pk *mceliece.PublicKey) []byte {
	g := SerializeMatrix(pk.G)
	result := make([]byte, 0, 4+len(g))
	result = appendUint32(result, pk.T)
	return append(result, g...)
}

// DeserializePublicKey decodes and validates a public key.
func DeserializePublicKey(data []byte) (*mceliece.PublicKey, error) {
	t, offset, err := utils.SafeReadLength(data, 0, utils.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: public key t: %v", mceliece.ErrMalformedData, err)
	}
	g, offset, err := DeserializeMatrix(data, offset)
	if err != nil {
		return nil, err
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after public key", mceliece.ErrMalformedData, len(data)-offset)
	}
	pk := &mceliece.PublicKey{G: g, T: t}
	if err := checkPublicKey(pk); err != nil {
		return nil, fmt.Errorf("%w: %w", mceliece.ErrMalformedData, err)
	}
	if pk.K() > pk.N() {
		return nil, fmt.Errorf("%w: public key has k = %d > n = %d", mceliece.ErrMalformedData, pk.K(), pk.N())
	}
	return pk, nil
}

// SerializePrivateKey encodes a private key as t | S | P | G. The cached inverse of
// S is not stored.
func SerializePrivateKey(sk *mceliece.PrivateKey) []byte {
	s := SerializeMatrix(sk.S)
	p := SerializeMatrix(sk.P)
	g := SerializeMatrix(sk.G)
	result := make([]byte, 0, 4+len(s)+len(p)+len(g))
	result = appendUint32(result, sk.T)
	result = append(result, s...)
	result = append(result, p...)
	return append(result, g...)
}

// DeserializePrivateKey decodes a private key and re-checks every key invariant,
// recomputing the inverse of S.
func DeserializePrivateKey(data []byte) (*mceliece.PrivateKey, error) {
	t, offset, err := utils.SafeReadLength(data, 0, utils.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: private key t: %v", mceliece.ErrMalformedData, err)
	}
	var parts [3]mceliece.BinaryMatrix
	for i := range parts {
		parts[i], offset, err = DeserializeMatrix(data, offset)
		if err != nil {
			return nil, err
		}
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after private key", mceliece.ErrMalformedData, len(data)-offset)
	}
	sk, err := NewPrivateKey(parts[0], parts[1], parts[2], t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mceliece.ErrMalformedData, err)
	}
	return sk, nil
}

// SerializeCiphertext encodes a list of equal-length ciphertext blocks as
// count | n | packed bits of every block.
func SerializeCiphertext(blocks [][]uint8) ([]byte, error) {
	n := 0
	if len(blocks) > 0 {
		n = len(blocks[0])
	}
	all := make([]uint8, 0, len(blocks)*n)
	for i, b := range blocks {
		if len(b) != n {
			return nil, fmt.Errorf("%w: block %d has %d bits, want %d", mceliece.ErrInvalidCiphertextLength, i, len(b), n)
		}
		if err := gf2.ValidateVector(b); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		all = append(all, b...)
	}
	packed := packBits(all)
	result := make([]byte, 0, 8+len(packed))
	result = appendUint32(result, len(blocks))
	result = appendUint32(result, n)
	return append(result, packed...), nil
}

// DeserializeCiphertext decodes ciphertext blocks written by SerializeCiphertext.
func DeserializeCiphertext(data []byte) ([][]uint8, error) {
	count, offset, err := utils.SafeReadLength(data, 0, utils.MaxBlockCount)
	if err != nil {
		return nil, fmt.Errorf("%w: block count: %v", mceliece.ErrMalformedData, err)
	}
	n, offset, err := utils.SafeReadLength(data, offset, utils.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: block length: %v", mceliece.ErrMalformedData, err)
	}
	total, err := utils.SafeMultiply(count, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mceliece.ErrMalformedData, err)
	}
	if err := utils.CheckLength(total, utils.MaxPayloadLength); err != nil {
		return nil, fmt.Errorf("%w: %d ciphertext bits: %v", mceliece.ErrMalformedData, total, err)
	}
	size := (total + 7) / 8
	if offset+size != len(data) {
		return nil, fmt.Errorf("%w: ciphertext body is %d bytes, want %d", mceliece.ErrMalformedData, len(data)-offset, size)
	}
	bits := unpackBits(data[offset:], total)
	blocks := make([][]uint8, count)
	for i := range blocks {
		blocks[i] = bits[i*n : (i+1)*n : (i+1)*n]
	}
	return blocks, nil
}
