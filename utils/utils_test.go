package utils

import (
	"bytes"
	"io"
	"testing"
)

func TestRandomInt(t *testing.T) {
	max := 100
	for i := 0; i < 1000; i++ {
		val, err := RandomInt(RandReader, max)
		if err != nil {
			t.Fatalf("RandomInt failed: %v", err)
		}
		if val < 0 || val >= max {
			t.Errorf("RandomInt returned value out of range: %d", val)
		}
	}
}

func TestValidateSeedEntropy(t *testing.T) {
	// Test all zeros
	zeros := make([]byte, 32)
	if err := ValidateSeedEntropy(zeros); err == nil {
		t.Error("ValidateSeedEntropy should reject all zeros")
	}

	// Test sequential
	seq := make([]byte, 32)
	for i := range seq {
		seq[i] = byte(i)
	}
	if err := ValidateSeedEntropy(seq); err == nil {
		t.Error("ValidateSeedEntropy should reject sequential bytes")
	}

	// Test short
	if err := ValidateSeedEntropy([]byte{1, 2, 3}); err == nil {
		t.Error("ValidateSeedEntropy should reject short seeds")
	}

	// Test good seed
	good, _ := SecureRandomBytes(32)
	if err := ValidateSeedEntropy(good); err != nil {
		t.Errorf("ValidateSeedEntropy rejected good seed: %v", err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	c := []byte{1, 2, 4}

	if !ConstantTimeEqual(a, b) {
		t.Error("ConstantTimeEqual failed for equal slices")
	}
	if ConstantTimeEqual(a, c) {
		t.Error("ConstantTimeEqual passed for unequal slices")
	}
	if ConstantTimeEqual(a, a[:2]) {
		t.Error("ConstantTimeEqual passed for different lengths")
	}
}

func TestSecureRandomBytes(t *testing.T) {
	b, err := SecureRandomBytes(32)
	if err != nil {
		t.Fatalf("SecureRandomBytes failed: %v", err)
	}
	if len(b) != 32 {
		t.Errorf("Expected 32 bytes, got %d", len(b))
	}

	b2, _ := SecureRandomBytes(32)
	if bytes.Equal(b, b2) {
		t.Error("SecureRandomBytes returned duplicate values")
	}
}

func TestSeededReader(t *testing.T) {
	seed := []byte("seeded reader test seed")
	out1 := make([]byte, 200)
	out2 := make([]byte, 200)
	if _, err := io.ReadFull(NewSeededReader("test", seed), out1); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(NewSeededReader("test", seed), out2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out1, out2) {
		t.Error("NewSeededReader is not deterministic")
	}

	out3 := make([]byte, 200)
	_, _ = io.ReadFull(NewSeededReader("other", seed), out3)
	if bytes.Equal(out1, out3) {
		t.Error("different domains should produce different streams")
	}
}

func TestRandomBits(t *testing.T) {
	bits, err := RandomBits(NewSeededReader("bits", []byte{7}), 77)
	if err != nil {
		t.Fatal(err)
	}
	if len(bits) != 77 {
		t.Fatalf("Expected 77 bits, got %d", len(bits))
	}
	ones := 0
	for i, b := range bits {
		if b > 1 {
			t.Fatalf("bit %d = %d is not binary", i, b)
		}
		ones += int(b)
	}
	if ones == 0 || ones == 77 {
		t.Errorf("implausible bit vector with %d ones", ones)
	}
}

func TestPermutation(t *testing.T) {
	r := NewSeededReader("perm", []byte{1})
	for n := 1; n <= 20; n++ {
		perm, err := Permutation(r, n)
		if err != nil {
			t.Fatal(err)
		}
		seen := make([]bool, n)
		for _, p := range perm {
			if p < 0 || p >= n || seen[p] {
				t.Fatalf("Permutation(%d) = %v is not a permutation", n, perm)
			}
			seen[p] = true
		}
	}
}

func TestSampleSubset(t *testing.T) {
	r := NewSeededReader("subset", []byte{2})
	for i := 0; i < 100; i++ {
		subset, err := SampleSubset(r, 12, 4)
		if err != nil {
			t.Fatal(err)
		}
		if len(subset) != 4 {
			t.Fatalf("expected 4 positions, got %d", len(subset))
		}
		seen := make(map[int]bool)
		for _, p := range subset {
			if p < 0 || p >= 12 || seen[p] {
				t.Fatalf("SampleSubset returned invalid subset %v", subset)
			}
			seen[p] = true
		}
	}
}

func TestHashWithDomain(t *testing.T) {
	data := []byte("data")
	h1 := HashWithDomain("a", data)
	h2 := HashWithDomain("b", data)
	if len(h1) != 32 {
		t.Errorf("expected 32-byte hash, got %d", len(h1))
	}
	if bytes.Equal(h1, h2) {
		t.Error("domain separation failed")
	}
	if bytes.Equal(h1, SHA3256(data)) {
		t.Error("domain hash should differ from plain SHA3-256")
	}
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3}
	Zeroize(b)
	for _, v := range b {
		if v != 0 {
			t.Fatal("Zeroize left non-zero byte")
		}
	}

	bits := []uint8{1, 0, 1}
	ZeroizeBits(bits)
	for _, v := range bits {
		if v != 0 {
			t.Fatal("ZeroizeBits left non-zero bit")
		}
	}
}
