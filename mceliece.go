// Package gf2mceliece implements a toy McEliece-style public-key cryptosystem over GF(2).
// This package holds the shared data types and error values; the algorithms live in
// sub-packages so callers can import only what they need.
package gf2mceliece

// Version of the gf2-mceliece Go implementation.
const Version = "0.3.0"

// API summary:
//
// GF(2) matrix kernel:
//   - gf2.Multiply(a, b), gf2.Add(a, b), gf2.Transpose(a), gf2.Rank(a)
//   - gf2.Invert(a) - Gauss-Jordan inverse over GF(2)
//   - gf2.RandomFullRank(r, rows, cols), gf2.RandomInvertible(r, size)
//   - gf2.RandomPermutation(r, size)
//
// Public-key encryption:
//   - pke.GenerateKeyPair(params) - Generate a key pair from crypto/rand
//   - pke.GenerateKeyPairFromSeed(params, seed) - Deterministic key pair
//   - pke.Encrypt(pk, m) - Encrypt a binary message vector
//   - pke.Decrypt(sk, c) - Decrypt a binary ciphertext vector
//
// Text messages:
//   - alpha27.GenerateKeys(n, kChars, t, r)
//   - alpha27.EncryptMessage(pk, text, r) / alpha27.DecryptMessage(sk, blocks)
//
// Parameters:
//   - core.GetParams(preset) - Named parameter sets
//   - TOY_6_3, SMALL_10_5, DEMO_30_15
