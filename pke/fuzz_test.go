package pke

import (
	"bytes"
	"testing"
)

func FuzzDeserializePublicKey(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{1, 0, 0, 0, 3, 0, 0, 0, 6, 0, 0, 0, 0x89, 0xa2, 0x2d})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		pk, err := DeserializePublicKey(data)
		if err != nil {
			return
		}
		if pk.K() < 1 || pk.K() > pk.N() || pk.T >= pk.N() {
			t.Fatalf("accepted invalid key k=%d n=%d t=%d", pk.K(), pk.N(), pk.T)
		}
		if !bytes.Equal(SerializePublicKey(pk)[:8], data[:8]) {
			t.Fatalf("header changed across round trip")
		}
	})
}

func FuzzDeserializePrivateKey(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1})

	f.Fuzz(func(t *testing.T, data []byte) {
		sk, err := DeserializePrivateKey(data)
		if err != nil {
			return
		}
		if sk.SInv == nil {
			t.Fatalf("accepted key without cached inverse")
		}
	})
}

func FuzzDeserializeCiphertext(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{2, 0, 0, 0, 3, 0, 0, 0, 0x2d})
	f.Add([]byte{0xff, 0xff, 0xff, 0x7f, 0xff, 0xff, 0xff, 0x7f})

	f.Fuzz(func(t *testing.T, data []byte) {
		blocks, err := DeserializeCiphertext(data)
		if err != nil {
			return
		}
		for i, b := range blocks {
			for _, bit := range b {
				if bit > 1 {
					t.Fatalf("block %d has non-binary entry", i)
				}
			}
		}
	})
}
