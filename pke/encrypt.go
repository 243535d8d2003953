package pke

import (
	"errors"
	"fmt"
	"io"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

// Encrypt encrypts a k-bit message using the default random source.
func Encrypt(pk *mceliece.PublicKey, message []uint8) ([]uint8, error) {
	return EncryptWithReader(pk, message, utils.RandReader)
}

// EncryptFromSeed performs deterministic encryption; the error vector is drawn from
// a stream derived from seed.
func EncryptFromSeed(pk *mceliece.PublicKey, message []uint8, seed []byte) ([]uint8, error) {
	if len(seed) < 32 {
		return nil, errors.New("seed must be at least 32 bytes")
	}
	return EncryptWithReader(pk, message, utils.NewSeededReader(DomainEncrypt, seed))
}

// EncryptWithReader computes c = m·Ĝ + z where z is a fresh error vector of weight
// exactly t drawn from r.
func EncryptWithReader(pk *mceliece.PublicKey, message []uint8, r io.Reader) ([]uint8, error) {
	if err := checkPublicKey(pk); err != nil {
		return nil, err
	}
	if err := checkMessage(message, pk.K()); err != nil {
		return nil, err
	}
	z, err := ErrorVector(r, pk.N(), pk.T)
	if err != nil {
		return nil, err
	}
	defer utils.ZeroizeBits(z)
	return EncryptWithError(pk, message, z)
}

// EncryptWithError computes c = m·Ĝ + z for a caller-supplied error vector z of
// length n. The weight of z is not checked, so callers can exercise errors beyond
// the designed capacity.
func EncryptWithError(pk *mceliece.PublicKey, message, z []uint8) ([]uint8, error) {
	if err := checkPublicKey(pk); err != nil {
		return nil, err
	}
	if err := checkMessage(message, pk.K()); err != nil {
		return nil, err
	}
	if len(z) != pk.N() {
		return nil, fmt.Errorf("%w: error vector has %d bits, want %d", mceliece.ErrShapeMismatch, len(z), pk.N())
	}
	if err := gf2.ValidateVector(z); err != nil {
		return nil, err
	}

	codeword, err := gf2.Multiply(gf2.RowVector(message), pk.G)
	if err != nil {
		return nil, err
	}
	c, err := gf2.Add(codeword, gf2.RowVector(z))
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}

// ErrorVector samples a length-n binary vector of Hamming weight exactly t,
// uniformly among all such vectors.
func ErrorVector(r io.Reader, n, t int) ([]uint8, error) {
	if n < 1 || t < 0 || t > n {
		return nil, fmt.Errorf("%w: error weight %d for length %d", mceliece.ErrInvalidParameters, t, n)
	}
	positions, err := utils.SampleSubset(r, n, t)
	if err != nil {
		return nil, err
	}
	z := make([]uint8, n)
	for _, p := range positions {
		z[p] = 1
	}
	return z, nil
}

func checkMessage(message []uint8, k int) error {
	if len(message) != k {
		return fmt.Errorf("%w: message has %d bits, want %d", mceliece.ErrInvalidMessageLength, len(message), k)
	}
	return gf2.ValidateVector(message)
}

func checkPublicKey(pk *mceliece.PublicKey) error {
	if pk == nil {
		return fmt.Errorf("%w: nil public key", mceliece.ErrInvalidParameters)
	}
	if err := gf2.Validate(pk.G); err != nil {
		return err
	}
	if pk.K() < 1 || pk.T < 0 || pk.T >= pk.N() {
		return fmt.Errorf("%w: public key has k = %d, n = %d, t = %d",
			mceliece.ErrInvalidParameters, pk.K(), pk.N(), pk.T)
	}
	return nil
}
