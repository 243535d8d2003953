package pke

import (
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
)

// Decrypt recovers the k-bit message from an n-bit ciphertext.
//
// The permutation is undone with ĉ = c·Pᵗ, the nearest codeword of the secret code
// gives m̂ = m·S, and m = m̂·S⁻¹. Recovery is guaranteed only when the error weight is
// below half the minimum distance of the secret code; beyond that a wrong message is
// returned without error.
func Decrypt(sk *mceliece.PrivateKey, ciphertext []uint8) ([]uint8, error) {
	if err := checkPrivateKey(sk); err != nil {
		return nil, err
	}
	if len(ciphertext) != sk.N() {
		return nil, fmt.Errorf("%w: ciphertext has %d bits, want %d",
			mceliece.ErrInvalidCiphertextLength, len(ciphertext), sk.N())
	}
	if err := gf2.ValidateVector(ciphertext); err != nil {
		return nil, err
	}

	unpermuted, err := gf2.VecMul(ciphertext, gf2.Transpose(sk.P))
	if err != nil {
		return nil, err
	}
	scrambled, dist, err := DecodeNearest(sk.G, unpermuted)
	if err != nil {
		return nil, err
	}
	if dist > sk.T {
		logDecode("decrypt: nearest codeword at distance %d exceeds t=%d", dist, sk.T)
	}

	sInv, err := scramblerInverse(sk)
	if err != nil {
		return nil, err
	}
	return gf2.VecMul(scrambled, sInv)
}

// scramblerInverse returns the cached S⁻¹, computing it for keys assembled by hand.
// The key itself is never mutated, so concurrent decryptions are safe.
func scramblerInverse(sk *mceliece.PrivateKey) (mceliece.BinaryMatrix, error) {
	if sk.SInv != nil {
		return *sk.SInv, nil
	}
	logDecode("decrypt: no cached inverse, inverting S")
	inv, err := gf2.Invert(sk.S)
	if err != nil {
		return mceliece.BinaryMatrix{}, fmt.Errorf("scrambler: %w", err)
	}
	return inv, nil
}

func checkPrivateKey(sk *mceliece.PrivateKey) error {
	if sk == nil {
		return fmt.Errorf("%w: nil private key", mceliece.ErrInvalidParameters)
	}
	k, n := sk.K(), sk.N()
	if err := gf2.Validate(sk.G); err != nil {
		return err
	}
	if sk.S.Rows != k || sk.S.Cols != k || len(sk.S.Data) != k*k {
		return fmt.Errorf("%w: scrambler is %dx%d, want %dx%d", mceliece.ErrShapeMismatch, sk.S.Rows, sk.S.Cols, k, k)
	}
	if sk.P.Rows != n || sk.P.Cols != n || len(sk.P.Data) != n*n {
		return fmt.Errorf("%w: permutation is %dx%d, want %dx%d", mceliece.ErrShapeMismatch, sk.P.Rows, sk.P.Cols, n, n)
	}
	if !gf2.IsPermutation(sk.P) {
		return fmt.Errorf("%w: P is not a permutation matrix", mceliece.ErrInvalidParameters)
	}
	if sk.SInv != nil && (sk.SInv.Rows != k || sk.SInv.Cols != k || len(sk.SInv.Data) != k*k) {
		return fmt.Errorf("%w: cached inverse has wrong shape", mceliece.ErrShapeMismatch)
	}
	return nil
}
