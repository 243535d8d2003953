// Package pke implements McEliece-style public-key encryption over GF(2).
//
// A private key is a rank-k generator G of a secret code, an invertible scrambler S
// and a permutation P. The public key is Ĝ = S·G·P. Encryption adds a random error of
// weight t to m·Ĝ; decryption undoes P, finds the nearest codeword of G by exhaustive
// search and undoes S.
package pke

import (
	"errors"
	"fmt"
	"io"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/core"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

const (
	DomainKeyGen      = "gf2-mceliece-keygen-v1"
	DomainEncrypt     = "gf2-mceliece-encrypt-v1"
	DomainFingerprint = "gf2-mceliece-fingerprint-v1"
)

// GenerateKeyPair generates a key pair using the default random source.
func GenerateKeyPair(params mceliece.Params) (*mceliece.KeyPair, error) {
	return GenerateKeys(params, utils.RandReader)
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params mceliece.Params, seed []byte) (*mceliece.KeyPair, error) {
	if len(seed) < 32 {
		return nil, errors.New("seed must be at least 32 bytes")
	}
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	return GenerateKeys(params, utils.NewSeededReader(DomainKeyGen, seed))
}

// GenerateKeys generates a key pair drawing all randomness from r.
// G, S and P are sampled in that order, so a fixed stream always yields the same keys.
func GenerateKeys(params mceliece.Params, r io.Reader) (*mceliece.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	g, err := gf2.RandomFullRank(r, params.K, params.N)
	if err != nil {
		return nil, fmt.Errorf("sampling secret code: %w", err)
	}
	s, err := gf2.RandomInvertible(r, params.K)
	if err != nil {
		return nil, fmt.Errorf("sampling scrambler: %w", err)
	}
	p, err := gf2.RandomPermutation(r, params.N)
	if err != nil {
		return nil, fmt.Errorf("sampling permutation: %w", err)
	}

	sk, err := NewPrivateKey(s, p, g, params.T)
	if err != nil {
		return nil, err
	}
	pk, err := DerivePublicKey(sk)
	if err != nil {
		return nil, err
	}

	return &mceliece.KeyPair{
		PublicKey:  *pk,
		PrivateKey: *sk,
	}, nil
}

// NewPrivateKey assembles a private key from its parts and checks every invariant:
// G is k x n with rank k, S is an invertible k x k matrix, P is an n x n permutation
// and 0 <= t < n. The inverse of S is computed once and cached in the key.
func NewPrivateKey(s, p, g mceliece.BinaryMatrix, t int) (*mceliece.PrivateKey, error) {
	k, n := g.Rows, g.Cols
	if err := core.ValidateParams(mceliece.Params{N: n, K: k, T: t}); err != nil {
		return nil, err
	}
	for _, m := range []mceliece.BinaryMatrix{s, p, g} {
		if err := gf2.Validate(m); err != nil {
			return nil, err
		}
	}
	if s.Rows != k || s.Cols != k {
		return nil, fmt.Errorf("%w: scrambler is %dx%d, want %dx%d", mceliece.ErrShapeMismatch, s.Rows, s.Cols, k, k)
	}
	if p.Rows != n || p.Cols != n {
		return nil, fmt.Errorf("%w: permutation is %dx%d, want %dx%d", mceliece.ErrShapeMismatch, p.Rows, p.Cols, n, n)
	}
	if !gf2.IsPermutation(p) {
		return nil, fmt.Errorf("%w: P is not a permutation matrix", mceliece.ErrInvalidParameters)
	}
	if rank := gf2.Rank(g); rank != k {
		return nil, fmt.Errorf("%w: secret generator has rank %d, want %d", mceliece.ErrInvalidParameters, rank, k)
	}
	sInv, err := gf2.Invert(s)
	if err != nil {
		return nil, fmt.Errorf("scrambler: %w", err)
	}

	return &mceliece.PrivateKey{
		S:    gf2.Clone(s),
		P:    gf2.Clone(p),
		G:    gf2.Clone(g),
		T:    t,
		SInv: &sInv,
	}, nil
}

// DerivePublicKey computes the public key (S·G·P, t) of a private key.
func DerivePublicKey(sk *mceliece.PrivateKey) (*mceliece.PublicKey, error) {
	sg, err := gf2.Multiply(sk.S, sk.G)
	if err != nil {
		return nil, err
	}
	gHat, err := gf2.Multiply(sg, sk.P)
	if err != nil {
		return nil, err
	}
	return &mceliece.PublicKey{G: gHat, T: sk.T}, nil
}

// Fingerprint returns a short identifier of a public key.
func Fingerprint(pk *mceliece.PublicKey) []byte {
	return utils.HashWithDomain(DomainFingerprint, SerializePublicKey(pk))[:16]
}
