// Package gf2mceliece implements a toy McEliece-style public-key cryptosystem over GF(2).
//
// The secret key is a structured code generator G disguised by a random scrambler S and a
// random permutation P; the public key is the product S·G·P. Decryption undoes P, finds the
// nearest codeword of G by exhaustive search and undoes S.
//
// WARNING: This is an educational construction. The decoder is exponential in k and the
// parameters are toy-sized. DO NOT use it to protect real data.
package gf2mceliece

// Preset names a built-in parameter set.
type Preset string

const (
	// TOY63 is the (n=6, k=3, t=1) set used in worked examples.
	TOY63 Preset = "TOY-6-3"
	// SMALL105 is the (n=10, k=5, t=1) set.
	SMALL105 Preset = "SMALL-10-5"
	// DEMO3015 is the (n=30, k=15, t=2) set carrying three alphabet characters per block.
	DEMO3015 Preset = "DEMO-30-15"
	// Aliases with underscore for convenience
	TOY_6_3    Preset = TOY63
	SMALL_10_5 Preset = SMALL105
	DEMO_30_15 Preset = DEMO3015
)

// =============================================================================
// Parameter Types
// =============================================================================

// Params contains the code parameters of a key pair.
type Params struct {
	N int `json:"n"` // Code length
	K int `json:"k"` // Code dimension (message bits)
	T int `json:"t"` // Designed error weight
}

// =============================================================================
// Matrix Types
// =============================================================================

// BinaryMatrix is a Rows x Cols matrix over GF(2).
// Data is stored row-major and every entry is 0 or 1.
type BinaryMatrix struct {
	Rows int
	Cols int
	Data []uint8
}

// At returns the entry in row i, column j.
func (m BinaryMatrix) At(i, j int) uint8 {
	return m.Data[i*m.Cols+j]
}

// Row returns row i as a slice aliasing the matrix storage.
func (m BinaryMatrix) Row(i int) []uint8 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// =============================================================================
// Key Types
// =============================================================================

// PublicKey is the public generator Ĝ = S·G·P together with the error weight t.
type PublicKey struct {
	G BinaryMatrix // k x n public generator
	T int
}

// K returns the message length in bits.
func (pk *PublicKey) K() int { return pk.G.Rows }

// N returns the ciphertext length in bits.
func (pk *PublicKey) N() int { return pk.G.Cols }

// PrivateKey holds the secret code and the transform that hides it.
type PrivateKey struct {
	S BinaryMatrix // k x k invertible scrambler
	P BinaryMatrix // n x n permutation
	G BinaryMatrix // k x n secret generator, rank k
	T int

	// SInv caches S^-1. It is set once when the key is built and never mutated;
	// decryption computes the inverse itself when it is nil.
	SInv *BinaryMatrix
}

// K returns the message length in bits.
func (sk *PrivateKey) K() int { return sk.G.Rows }

// N returns the ciphertext length in bits.
func (sk *PrivateKey) N() int { return sk.G.Cols }

// KeyPair contains both public and private keys.
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}
