package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// NewSeededReader returns an endless deterministic byte stream: the SHAKE256 XOF of
// the domain-separated seed. Two readers built from the same domain and seed produce
// identical streams, which is what makes seeded key generation reproducible.
func NewSeededReader(domain string, seed []byte) io.Reader {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.NewShake256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(seed)
	return h
}

// SHA3256 computes the SHA3-256 cryptographic hash of the input.
// It returns a 32-byte hash.
func SHA3256(input []byte) []byte {
	h := sha3.New256()
	h.Write(input)
	return h.Sum(nil)
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain string itself.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.New256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(data)
	return h.Sum(nil)
}
