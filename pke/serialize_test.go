package pke

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/core"
	"github.com/BackendStack21/gf2-mceliece-go/gf2"
)

func TestSerializeMatrix_Layout(t *testing.T) {
	m := mustRows(t, [][]uint8{{1, 0, 1}, {1, 1, 0}, {0, 0, 1}})
	data := SerializeMatrix(m)
	if len(data) != 8+2 {
		t.Fatalf("serialized length %d, want 10", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:]) != 3 || binary.LittleEndian.Uint32(data[4:]) != 3 {
		t.Errorf("bad shape header %x", data[:8])
	}
	// Bits 101 110 00|1 packed LSB first.
	if data[8] != 0x1d || data[9] != 0x01 {
		t.Errorf("packed bits %x, want 1d01", data[8:])
	}

	back, off, err := DeserializeMatrix(data, 0)
	if err != nil {
		t.Fatalf("DeserializeMatrix failed: %v", err)
	}
	if off != len(data) || !gf2.Equal(back, m) {
		t.Errorf("round trip mismatch")
	}
}

func TestSerializeKeys_RoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(core.DEMO3015Params)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	pkBytes := SerializePublicKey(&kp.PublicKey)
	pk, err := DeserializePublicKey(pkBytes)
	if err != nil {
		t.Fatalf("DeserializePublicKey failed: %v", err)
	}
	if !gf2.Equal(pk.G, kp.PublicKey.G) || pk.T != kp.PublicKey.T {
		t.Error("public key round trip mismatch")
	}

	skBytes := SerializePrivateKey(&kp.PrivateKey)
	sk, err := DeserializePrivateKey(skBytes)
	if err != nil {
		t.Fatalf("DeserializePrivateKey failed: %v", err)
	}
	if !gf2.Equal(sk.S, kp.PrivateKey.S) || !gf2.Equal(sk.P, kp.PrivateKey.P) ||
		!gf2.Equal(sk.G, kp.PrivateKey.G) || sk.T != kp.PrivateKey.T {
		t.Error("private key round trip mismatch")
	}
	if sk.SInv == nil || !gf2.Equal(*sk.SInv, *kp.PrivateKey.SInv) {
		t.Error("deserialized key has no valid cached inverse")
	}
	if !bytes.Equal(Fingerprint(pk), Fingerprint(&kp.PublicKey)) {
		t.Error("fingerprint changed across round trip")
	}
}

func TestDeserializePublicKey_Malformed(t *testing.T) {
	pk, _ := fixedKeyPair(t)
	good := SerializePublicKey(pk)

	cases := map[string][]byte{
		"empty":          {},
		"truncated t":    good[:2],
		"truncated body": good[:len(good)-1],
		"trailing":       append(append([]byte(nil), good...), 0),
	}
	tooBigT := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(tooBigT, 6)
	cases["t equals n"] = tooBigT

	for name, data := range cases {
		if _, err := DeserializePublicKey(data); !errors.Is(err, mceliece.ErrMalformedData) {
			t.Errorf("%s: expected ErrMalformedData, got %v", name, err)
		}
	}
}

func TestDeserializeMatrix_Limits(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:], 1<<20)
	binary.LittleEndian.PutUint32(data[4:], 1)
	if _, _, err := DeserializeMatrix(data, 0); !errors.Is(err, mceliece.ErrMalformedData) {
		t.Errorf("expected ErrMalformedData for oversized rows, got %v", err)
	}

	binary.LittleEndian.PutUint32(data[0:], 16)
	binary.LittleEndian.PutUint32(data[4:], 16)
	if _, _, err := DeserializeMatrix(data, 0); !errors.Is(err, mceliece.ErrMalformedData) {
		t.Errorf("expected ErrMalformedData for missing data, got %v", err)
	}
}

func TestDeserializePrivateKey_Invalid(t *testing.T) {
	g := mustRows(t, fixedG)

	notPerm := &mceliece.PrivateKey{S: gf2.Identity(3), P: gf2.Identity(6), G: g, T: 1}
	notPerm.P = gf2.Clone(notPerm.P)
	notPerm.P.Data[1] = 1
	if _, err := DeserializePrivateKey(SerializePrivateKey(notPerm)); !errors.Is(err, mceliece.ErrMalformedData) {
		t.Errorf("non-permutation P: expected ErrMalformedData, got %v", err)
	}

	singular := &mceliece.PrivateKey{S: mceliece.BinaryMatrix{Rows: 3, Cols: 3, Data: make([]uint8, 9)}, P: gf2.Identity(6), G: g, T: 1}
	_, err := DeserializePrivateKey(SerializePrivateKey(singular))
	if !errors.Is(err, mceliece.ErrMalformedData) || !errors.Is(err, mceliece.ErrSingularMatrix) {
		t.Errorf("singular S: expected ErrMalformedData wrapping ErrSingularMatrix, got %v", err)
	}

	_, sk := fixedKeyPair(t)
	good := SerializePrivateKey(sk)
	if _, err := DeserializePrivateKey(good[:len(good)-3]); !errors.Is(err, mceliece.ErrMalformedData) {
		t.Errorf("truncated: expected ErrMalformedData, got %v", err)
	}
}

func TestNewPrivateKey_Invalid(t *testing.T) {
	g := mustRows(t, fixedG)
	rankDeficient := mustRows(t, [][]uint8{{1, 0, 0, 1, 1, 0}, {1, 0, 0, 1, 1, 0}, {0, 0, 1, 0, 1, 1}})

	tests := []struct {
		name string
		s, p mceliece.BinaryMatrix
		g    mceliece.BinaryMatrix
		t    int
		want error
	}{
		{"wrong S shape", gf2.Identity(2), gf2.Identity(6), g, 1, mceliece.ErrShapeMismatch},
		{"wrong P shape", gf2.Identity(3), gf2.Identity(5), g, 1, mceliece.ErrShapeMismatch},
		{"rank deficient G", gf2.Identity(3), gf2.Identity(6), rankDeficient, 1, mceliece.ErrInvalidParameters},
		{"t too large", gf2.Identity(3), gf2.Identity(6), g, 6, mceliece.ErrInvalidParameters},
		{"non-binary S", mceliece.BinaryMatrix{Rows: 3, Cols: 3, Data: []uint8{2, 0, 0, 0, 1, 0, 0, 0, 1}}, gf2.Identity(6), g, 1, mceliece.ErrInvalidSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPrivateKey(tt.s, tt.p, tt.g, tt.t); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSerializeCiphertext_RoundTrip(t *testing.T) {
	blocks := [][]uint8{
		{1, 0, 1, 1, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1},
	}
	data, err := SerializeCiphertext(blocks)
	if err != nil {
		t.Fatalf("SerializeCiphertext failed: %v", err)
	}
	if len(data) != 8+3 {
		t.Errorf("serialized length %d, want 11", len(data))
	}
	back, err := DeserializeCiphertext(data)
	if err != nil {
		t.Fatalf("DeserializeCiphertext failed: %v", err)
	}
	if len(back) != len(blocks) {
		t.Fatalf("got %d blocks, want %d", len(back), len(blocks))
	}
	for i := range blocks {
		if !bytes.Equal(back[i], blocks[i]) {
			t.Errorf("block %d = %v, want %v", i, back[i], blocks[i])
		}
	}

	empty, err := SerializeCiphertext(nil)
	if err != nil {
		t.Fatalf("SerializeCiphertext(nil) failed: %v", err)
	}
	if back, err := DeserializeCiphertext(empty); err != nil || len(back) != 0 {
		t.Errorf("empty round trip: %v, %v", back, err)
	}
}

func TestSerializeCiphertext_Invalid(t *testing.T) {
	if _, err := SerializeCiphertext([][]uint8{{1, 0}, {1}}); !errors.Is(err, mceliece.ErrInvalidCiphertextLength) {
		t.Errorf("ragged blocks: expected ErrInvalidCiphertextLength, got %v", err)
	}
	if _, err := SerializeCiphertext([][]uint8{{1, 5}}); !errors.Is(err, mceliece.ErrInvalidSymbol) {
		t.Errorf("non-binary block: expected ErrInvalidSymbol, got %v", err)
	}

	data, _ := SerializeCiphertext([][]uint8{{1, 0, 1}, {0, 1, 0}})
	for name, bad := range map[string][]byte{
		"short header": data[:6],
		"short body":   data[:len(data)-1],
		"trailing":     append(append([]byte(nil), data...), 0xff),
	} {
		if _, err := DeserializeCiphertext(bad); !errors.Is(err, mceliece.ErrMalformedData) {
			t.Errorf("%s: expected ErrMalformedData, got %v", name, err)
		}
	}
}
